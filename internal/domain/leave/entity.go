package leave

import "time"

type Type string

const (
	TypeOther  Type = "Other"
	TypePaid   Type = "Paid"
	TypeUnpaid Type = "Unpaid"
	TypeSick   Type = "Sick"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type LeaveRequest struct {
	ID            uint
	UserID        uint
	UserEmail     string
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	LeaveType     Type
	Attachment    string
	Status        Status
	AdminResponse string
	CreatedAt     time.Time
}
