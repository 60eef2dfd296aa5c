package user

import "context"

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListByRoles(ctx context.Context, roles ...Role) ([]*User, error)
	UpdateRole(ctx context.Context, userID uint, role Role) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash, salt string) error
}
