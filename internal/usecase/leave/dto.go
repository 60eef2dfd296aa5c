package leave

import (
	domainLeave "company-data-manager/internal/domain/leave"
	"io"
	"time"
)

type SubmitLeaveRequest struct {
	StartDate string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" form:"reason" validate:"omitempty,max=2000"`
	LeaveType string `json:"leave_type" form:"leave_type" validate:"omitempty,oneof=Other Paid Unpaid Sick"`
}

// Attachment is an uploaded file supplied with a leave request.
type Attachment struct {
	Name   string
	Reader io.Reader
}

type ResolveLeaveRequest struct {
	Status   string `json:"status" validate:"required,oneof=Approved Rejected"`
	Response string `json:"response" validate:"omitempty,max=2000"`
}

type LeaveResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	UserEmail     string    `json:"user_email,omitempty"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Reason        string    `json:"reason"`
	LeaveType     string    `json:"leave_type"`
	Attachment    string    `json:"attachment,omitempty"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"admin_response"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToLeaveResponse(l *domainLeave.LeaveRequest) *LeaveResponse {
	if l == nil {
		return nil
	}
	return &LeaveResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		UserEmail:     l.UserEmail,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		Reason:        l.Reason,
		LeaveType:     string(l.LeaveType),
		Attachment:    l.Attachment,
		Status:        string(l.Status),
		AdminResponse: l.AdminResponse,
		CreatedAt:     l.CreatedAt,
	}
}

func ToLeaveResponses(requests []*domainLeave.LeaveRequest) []*LeaveResponse {
	responses := make([]*LeaveResponse, len(requests))
	for i, l := range requests {
		responses[i] = ToLeaveResponse(l)
	}
	return responses
}
