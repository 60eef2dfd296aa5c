package record

import (
	domainRecord "company-data-manager/internal/domain/record"
	domainUser "company-data-manager/internal/domain/user"
	"time"

	"github.com/shopspring/decimal"
)

// AddRecordRequest covers both paths. Employees and managers need department,
// position and salary; clients only a name and an email.
type AddRecordRequest struct {
	Role          string           `json:"role" validate:"required,oneof=manager employee client"`
	EmployeeName  string           `json:"employee_name" validate:"required,max=255"`
	Department    *string          `json:"department" validate:"omitempty,max=100"`
	Position      *string          `json:"position" validate:"omitempty,max=100"`
	Salary        *decimal.Decimal `json:"salary"`
	HireDate      string           `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	Email         string           `json:"email" validate:"required,email"`
	Phone         string           `json:"phone" validate:"omitempty,max=30"`
	Status        string           `json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
	CreateAccount bool             `json:"create_account"`
	Password      string           `json:"password" validate:"omitempty,min=8"`
}

type UpdateRecordRequest struct {
	EmployeeName *string          `json:"employee_name" validate:"omitempty,max=255"`
	Department   *string          `json:"department" validate:"omitempty,max=100"`
	Position     *string          `json:"position" validate:"omitempty,max=100"`
	Salary       *decimal.Decimal `json:"salary"`
	HireDate     *string          `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone" validate:"omitempty,max=30"`
	Status       *string          `json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
}

type RecordFilterRequest struct {
	Department string `form:"department"`
	Status     string `form:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
	Role       string `form:"role" validate:"omitempty,oneof=manager employee client"`
	Search     string `form:"search"`
}

type RecordResponse struct {
	ID           uint             `json:"id"`
	UserID       *uint            `json:"user_id"`
	EmployeeName string           `json:"employee_name"`
	Department   *string          `json:"department"`
	Position     *string          `json:"position"`
	Salary       *decimal.Decimal `json:"salary"`
	HireDate     *string          `json:"hire_date"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	Status       string           `json:"status"`
	Role         string           `json:"role,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`

	// GeneratedPassword is set only on the response that created the account.
	GeneratedPassword string `json:"generated_password,omitempty"`
}

func ToRecordResponse(r *domainRecord.EmployeeRecord) *RecordResponse {
	if r == nil {
		return nil
	}
	resp := &RecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Position:     r.Position,
		Salary:       r.Salary,
		Email:        r.Email,
		Phone:        r.Phone,
		Status:       string(r.Status),
		Role:         string(r.Role),
		CreatedAt:    r.CreatedAt,
	}
	if r.HireDate != nil {
		d := r.HireDate.Format(dateLayout)
		resp.HireDate = &d
	}
	return resp
}

func ToRecordResponses(records []*domainRecord.EmployeeRecord) []*RecordResponse {
	responses := make([]*RecordResponse, len(records))
	for i, r := range records {
		responses[i] = ToRecordResponse(r)
	}
	return responses
}

func ToDomainFilter(req *RecordFilterRequest) *domainRecord.Filter {
	if req == nil {
		return &domainRecord.Filter{}
	}
	return &domainRecord.Filter{
		Department: req.Department,
		Status:     domainRecord.Status(req.Status),
		Role:       domainUser.Role(req.Role),
		Search:     req.Search,
	}
}
