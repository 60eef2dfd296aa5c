package user

import appErrors "company-data-manager/pkg/errors"

var (
	ErrInvalidRole      = appErrors.Validation("role", "role must be one of manager, employee, client")
	ErrManagerSignup    = appErrors.Validation("role", "manager accounts cannot be self-registered")
	ErrManagerOnly      = appErrors.Unauthorized("only a manager can perform this action")
	ErrStaffOnly        = appErrors.Unauthorized("only managers and employees can perform this action")
	ErrNotAuthenticated = appErrors.Unauthorized("authentication required")
)
