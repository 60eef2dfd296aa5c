package sqlstore

import (
	"company-data-manager/internal/domain/message"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

type messageRow struct {
	ID         uint
	FromUserID uint
	ToUserID   uint
	Subject    string
	Content    string
	ShipmentID *uint
	IsRead     bool
	CreatedAt  time.Time
	FromEmail  *string
	ToEmail    *string
}

func (r *MessageRepository) Create(ctx context.Context, msg *message.Message) error {
	msg.CreatedAt = time.Now()

	dbModel := &models.MessageModel{
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Subject:    msg.Subject,
		Content:    msg.Content,
		ShipmentID: msg.ShipmentID,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return appErrors.Validation("to_user_id", "recipient or shipment does not exist")
		}
		return appErrors.Storage("send message", err)
	}

	msg.ID = dbModel.ID

	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, messageID uint) (*message.Message, error) {
	var row messageRow
	result := r.baseQuery(ctx).Where("m.id = ?", messageID).Limit(1).Scan(&row)

	if result.Error != nil {
		return nil, appErrors.Storage("get message", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.NotFound("message", messageID)
	}

	return toMessageEntity(&row), nil
}

// MarkRead is idempotent; a message that is already read is not an error.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID uint) error {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("id = ?", messageID).
		Count(&count).Error
	if err != nil {
		return appErrors.Storage("get message", err)
	}
	if count == 0 {
		return appErrors.NotFound("message", messageID)
	}

	err = r.db.DB.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("id = ?", messageID).
		Update("is_read", true).Error
	if err != nil {
		return appErrors.Storage("mark message read", err)
	}

	return nil
}

func (r *MessageRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("to_user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, appErrors.Storage("count unread messages", err)
	}

	return count, nil
}

func (r *MessageRepository) ListForUser(ctx context.Context, userID uint) ([]*message.Message, error) {
	var rows []messageRow
	err := r.baseQuery(ctx).
		Where("m.from_user_id = ? OR m.to_user_id = ?", userID, userID).
		Order("m.created_at DESC, m.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, appErrors.Storage("list messages", err)
	}

	messages := make([]*message.Message, len(rows))
	for i := range rows {
		messages[i] = toMessageEntity(&rows[i])
	}

	return messages, nil
}

func (r *MessageRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.from_user_id, m.to_user_id, m.subject, m.content, m.shipment_id, m.is_read, " +
			"m.created_at, fu.email AS from_email, tu.email AS to_email").
		Joins("LEFT JOIN users fu ON fu.id = m.from_user_id").
		Joins("LEFT JOIN users tu ON tu.id = m.to_user_id")
}

func toMessageEntity(row *messageRow) *message.Message {
	return &message.Message{
		ID:         row.ID,
		FromUserID: row.FromUserID,
		FromEmail:  deref(row.FromEmail),
		ToUserID:   row.ToUserID,
		ToEmail:    deref(row.ToEmail),
		Subject:    row.Subject,
		Content:    row.Content,
		ShipmentID: row.ShipmentID,
		IsRead:     row.IsRead,
		CreatedAt:  row.CreatedAt,
	}
}

var _ message.Repository = (*MessageRepository)(nil)
