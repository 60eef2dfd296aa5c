package record

import (
	"time"

	"company-data-manager/internal/domain/user"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusOnLeave  Status = "On Leave"
)

// EmployeeRecord is the master record of an employee or client.
// Department, Position and Salary are nil for clients.
type EmployeeRecord struct {
	ID           uint
	UserID       *uint
	EmployeeName string
	Department   *string
	Position     *string
	Salary       *decimal.Decimal
	HireDate     *time.Time
	Email        string
	Phone        string
	Status       Status
	CreatedAt    time.Time

	// Role is projected from the linked user and is empty when no account exists.
	Role user.Role
}

type Filter struct {
	Department string
	Status     Status
	Role       user.Role
	Search     string
}

type Statistics struct {
	TotalRecords  int64           `json:"total_records"`
	Departments   int64           `json:"departments"`
	AverageSalary decimal.Decimal `json:"average_salary"`
	ActiveRecords int64           `json:"active_records"`
}
