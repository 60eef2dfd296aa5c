package leave

import "context"

type Repository interface {
	Create(ctx context.Context, req *LeaveRequest) error
	GetByID(ctx context.Context, requestID uint) (*LeaveRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]*LeaveRequest, error)
	ListAll(ctx context.Context) ([]*LeaveRequest, error)
	// Resolve moves a pending request to status. It fails with VALIDATION_FAILED
	// when the request is no longer pending.
	Resolve(ctx context.Context, requestID uint, status Status, response string) error
	ListAttachments(ctx context.Context) ([]string, error)
}
