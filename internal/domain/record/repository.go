package record

import (
	"context"

	"company-data-manager/internal/domain/user"
)

type Repository interface {
	Create(ctx context.Context, rec *EmployeeRecord) error
	// CreateWithAccount stores the user and the record linked to it in one transaction.
	CreateWithAccount(ctx context.Context, rec *EmployeeRecord, account *user.User) error
	GetByID(ctx context.Context, recordID uint) (*EmployeeRecord, error)
	// EmailInUse reports whether another record (id != excludeID) already uses email.
	EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, rec *EmployeeRecord) error
	Delete(ctx context.Context, recordID uint) error
	List(ctx context.Context, filter *Filter) ([]*EmployeeRecord, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}
