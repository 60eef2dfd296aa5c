package leave

import (
	domainLeave "company-data-manager/internal/domain/leave"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// FileStore is where leave attachments are kept.
type FileStore interface {
	Save(ctx context.Context, prefix, originalName string, r io.Reader) (*storage.StoredFile, error)
	Open(name string) (*os.File, string, error)
	Remove(name string) error
}

type Service struct {
	leaveRepo domainLeave.Repository
	files     FileStore
}

func NewService(leaveRepo domainLeave.Repository, files FileStore) *Service {
	return &Service{
		leaveRepo: leaveRepo,
		files:     files,
	}
}

// SubmitLeave records a pending request for the caller. The attachment, when
// given, is stored as user<id>_<unix time>_<original name>.
func (s *Service) SubmitLeave(ctx context.Context, actor domainUser.Actor, req *SubmitLeaveRequest, attachment *Attachment) (*LeaveResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Validation("start_date", "start_date must be a date in YYYY-MM-DD format")
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, appErrors.Validation("end_date", "end_date must be a date in YYYY-MM-DD format")
	}
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	leaveReq := &domainLeave.LeaveRequest{
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		StartDate: start,
		EndDate:   end,
		Reason:    utils.SanitizeText(req.Reason),
		LeaveType: domainLeave.Type(req.LeaveType),
		Status:    domainLeave.StatusPending,
	}

	if attachment != nil && attachment.Reader != nil {
		prefix := fmt.Sprintf("user%d_%d", actor.UserID, time.Now().Unix())
		stored, err := s.files.Save(ctx, prefix, attachment.Name, attachment.Reader)
		if err != nil {
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, appErrors.Validation("attachment", err.Error())
			}
			return nil, appErrors.Storage("store leave attachment", err)
		}
		leaveReq.Attachment = stored.Name
	}

	if err := s.leaveRepo.Create(ctx, leaveReq); err != nil {
		if leaveReq.Attachment != "" {
			if rmErr := s.files.Remove(leaveReq.Attachment); rmErr != nil {
				logger.Warn("Failed to remove orphaned leave attachment",
					zap.String("file", leaveReq.Attachment),
					zap.Error(rmErr),
				)
			}
		}
		return nil, err
	}

	logger.Info("Leave request submitted",
		zap.Uint("leave_id", leaveReq.ID),
		zap.Uint("user_id", actor.UserID),
		zap.String("leave_type", string(leaveReq.LeaveType)),
		zap.String("event", "leave_submitted"),
	)

	return ToLeaveResponse(leaveReq), nil
}

func (s *Service) ListMine(ctx context.Context, actor domainUser.Actor) ([]*LeaveResponse, error) {
	requests, err := s.leaveRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return ToLeaveResponses(requests), nil
}

// ListAll is the manager view with the requester's email joined.
func (s *Service) ListAll(ctx context.Context, actor domainUser.Actor) ([]*LeaveResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}

	requests, err := s.leaveRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToLeaveResponses(requests), nil
}

// ResolveLeave moves a pending request to Approved or Rejected. Resolved
// requests cannot change again.
func (s *Service) ResolveLeave(ctx context.Context, actor domainUser.Actor, requestID uint, req *ResolveLeaveRequest) (*LeaveResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	status := domainLeave.Status(req.Status)
	if !status.IsTerminal() {
		return nil, domainLeave.ErrInvalidOutcome
	}

	response := utils.SanitizeText(req.Response)
	if err := s.leaveRepo.Resolve(ctx, requestID, status, response); err != nil {
		return nil, err
	}

	resolved, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	logger.Info("Leave request resolved",
		zap.Uint("leave_id", requestID),
		zap.Uint("resolved_by", actor.UserID),
		zap.String("status", string(status)),
		zap.String("event", "leave_resolved"),
	)

	return ToLeaveResponse(resolved), nil
}

// OpenAttachment returns the stored attachment of a request. Only the
// requester and managers may read it; the caller closes the file.
func (s *Service) OpenAttachment(ctx context.Context, actor domainUser.Actor, requestID uint) (*os.File, string, string, error) {
	leaveReq, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, "", "", err
	}
	if leaveReq.UserID != actor.UserID && !actor.IsManager() {
		return nil, "", "", appErrors.Unauthorized("only the requester or a manager can read this attachment")
	}
	if leaveReq.Attachment == "" {
		return nil, "", "", appErrors.NotFound("leave attachment", requestID)
	}

	f, contentType, err := s.files.Open(leaveReq.Attachment)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", "", appErrors.NotFound("leave attachment", leaveReq.Attachment)
		}
		return nil, "", "", appErrors.Storage("open leave attachment", err)
	}

	return f, contentType, leaveReq.Attachment, nil
}

func ValidateDateRange(start, end time.Time) error {
	if end.Before(start) {
		return domainLeave.ErrDateOrder
	}
	return nil
}
