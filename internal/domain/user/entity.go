package user

import "time"

// Role determines what a user may see and change.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleEmployee, RoleClient:
		return true
	}
	return false
}

type User struct {
	ID           uint
	Email        string
	PasswordHash string
	Salt         string
	Role         Role
	CreatedAt    time.Time
}

// Actor is the authenticated caller, passed explicitly into every operation.
type Actor struct {
	UserID uint
	Email  string
	Role   Role
}

func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}

// IsStaff reports whether the actor is a manager or an employee.
func (a Actor) IsStaff() bool {
	return a.Role == RoleManager || a.Role == RoleEmployee
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}
