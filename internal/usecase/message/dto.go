package message

import (
	domainMessage "company-data-manager/internal/domain/message"
	domainUser "company-data-manager/internal/domain/user"
	"time"
)

type SendMessageRequest struct {
	ToUserID   uint   `json:"to_user_id" validate:"required"`
	Subject    string `json:"subject" validate:"required,max=255"`
	Content    string `json:"content" validate:"required,max=10000"`
	ShipmentID *uint  `json:"shipment_id"`
}

type MessageResponse struct {
	ID         uint      `json:"id"`
	FromUserID uint      `json:"from_user_id"`
	FromEmail  string    `json:"from_email"`
	ToUserID   uint      `json:"to_user_id"`
	ToEmail    string    `json:"to_email"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	ShipmentID *uint     `json:"shipment_id,omitempty"`
	IsRead     bool      `json:"is_read"`
	Received   bool      `json:"received"`
	CreatedAt  time.Time `json:"created_at"`
}

type RecipientResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UnreadResponse struct {
	Unread int64 `json:"unread"`
}

// ToMessageResponse marks whether the viewer is the recipient.
func ToMessageResponse(m *domainMessage.Message, viewerID uint) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		FromEmail:  m.FromEmail,
		ToUserID:   m.ToUserID,
		ToEmail:    m.ToEmail,
		Subject:    m.Subject,
		Content:    m.Content,
		ShipmentID: m.ShipmentID,
		IsRead:     m.IsRead,
		Received:   m.ToUserID == viewerID,
		CreatedAt:  m.CreatedAt,
	}
}

func ToRecipientResponse(u *domainUser.User) *RecipientResponse {
	return &RecipientResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
