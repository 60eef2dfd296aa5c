package sqlstore

import (
	"company-data-manager/internal/domain/leave"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type LeaveRepository struct {
	db *DB
}

func NewLeaveRepository(db *DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// leaveRow is a leave_requests row with the requester's email.
type leaveRow struct {
	ID            uint
	UserID        uint
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	LeaveType     string
	Attachment    string
	Status        string
	AdminResponse string
	CreatedAt     time.Time
	UserEmail     string
}

func (r *LeaveRepository) Create(ctx context.Context, req *leave.LeaveRequest) error {
	if req.Status == "" {
		req.Status = leave.StatusPending
	}
	if req.LeaveType == "" {
		req.LeaveType = leave.TypeOther
	}

	dbModel := &models.LeaveRequestModel{
		UserID:        req.UserID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Reason:        req.Reason,
		LeaveType:     string(req.LeaveType),
		Attachment:    req.Attachment,
		Status:        string(req.Status),
		AdminResponse: req.AdminResponse,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return appErrors.Storage("create leave request", err)
	}

	req.ID = dbModel.ID
	req.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, requestID uint) (*leave.LeaveRequest, error) {
	var row leaveRow
	result := r.baseQuery(ctx).Where("l.id = ?", requestID).Limit(1).Scan(&row)

	if result.Error != nil {
		return nil, appErrors.Storage("get leave request", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.NotFound("leave request", requestID)
	}

	return toLeaveEntity(&row), nil
}

func (r *LeaveRepository) ListByUser(ctx context.Context, userID uint) ([]*leave.LeaveRequest, error) {
	return r.list(r.baseQuery(ctx).Where("l.user_id = ?", userID))
}

func (r *LeaveRepository) ListAll(ctx context.Context) ([]*leave.LeaveRequest, error) {
	return r.list(r.baseQuery(ctx))
}

func (r *LeaveRepository) list(db *gorm.DB) ([]*leave.LeaveRequest, error) {
	var rows []leaveRow
	if err := db.Order("l.id DESC").Scan(&rows).Error; err != nil {
		return nil, appErrors.Storage("list leave requests", err)
	}

	requests := make([]*leave.LeaveRequest, len(rows))
	for i := range rows {
		requests[i] = toLeaveEntity(&rows[i])
	}

	return requests, nil
}

func (r *LeaveRepository) Resolve(ctx context.Context, requestID uint, status leave.Status, response string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.LeaveRequestModel{}).
		Where("id = ? AND status = ?", requestID, string(leave.StatusPending)).
		Updates(map[string]interface{}{
			"status":         string(status),
			"admin_response": response,
		})

	if result.Error != nil {
		return appErrors.Storage("resolve leave request", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the request is missing or already resolved.
	var current models.LeaveRequestModel
	err := r.db.DB.WithContext(ctx).Select("id", "status").Where("id = ?", requestID).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.NotFound("leave request", requestID)
	}
	if err != nil {
		return appErrors.Storage("get leave request", err)
	}

	return leave.ErrAlreadyResolved(requestID, leave.Status(current.Status))
}

func (r *LeaveRepository) ListAttachments(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.DB.WithContext(ctx).
		Model(&models.LeaveRequestModel{}).
		Where("attachment <> ''").
		Pluck("attachment", &names).Error
	if err != nil {
		return nil, appErrors.Storage("list leave attachments", err)
	}

	return names, nil
}

func (r *LeaveRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Table("leave_requests AS l").
		Select("l.id, l.user_id, l.start_date, l.end_date, l.reason, l.leave_type, l.attachment, " +
			"l.status, l.admin_response, l.created_at, u.email AS user_email").
		Joins("LEFT JOIN users u ON u.id = l.user_id")
}

func toLeaveEntity(row *leaveRow) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:            row.ID,
		UserID:        row.UserID,
		UserEmail:     row.UserEmail,
		StartDate:     dateOnly(row.StartDate),
		EndDate:       dateOnly(row.EndDate),
		Reason:        row.Reason,
		LeaveType:     leave.Type(row.LeaveType),
		Attachment:    row.Attachment,
		Status:        leave.Status(row.Status),
		AdminResponse: row.AdminResponse,
		CreatedAt:     row.CreatedAt,
	}
}

// dateOnly drops the clock part that some drivers attach to DATE columns.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ leave.Repository = (*LeaveRepository)(nil)
