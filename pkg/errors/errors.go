package errors

import (
	"errors"
	"fmt"
)

const (
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeNoSuchAccount      = "NO_SUCH_ACCOUNT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeStorageError       = "STORAGE_ERROR"
)

// Sentinels match any AppError carrying the same code, so
// errors.Is(err, ErrNotFound) holds for every not-found error.
var (
	ErrDuplicateEmail     = &AppError{Code: CodeDuplicateEmail, Message: "email already registered"}
	ErrNoSuchAccount      = &AppError{Code: CodeNoSuchAccount, Message: "no account with this email"}
	ErrInvalidCredentials = &AppError{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	ErrNotFound           = &AppError{Code: CodeNotFound, Message: "resource not found"}
	ErrValidationFailed   = &AppError{Code: CodeValidationFailed, Message: "validation failed"}
	ErrUnauthorized       = &AppError{Code: CodeUnauthorized, Message: "insufficient permissions"}
	ErrStorage            = &AppError{Code: CodeStorageError, Message: "storage failure"}
)

type AppError struct {
	Code    string
	Message string
	// Field names the offending input field for validation failures.
	Field string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Message: message,
		Field:   field,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func DuplicateEmail(email string) *AppError {
	return &AppError{
		Code:    CodeDuplicateEmail,
		Message: fmt.Sprintf("email %s is already in use", email),
		Field:   "email",
	}
}

func Storage(op string, err error) *AppError {
	return &AppError{
		Code:    CodeStorageError,
		Message: "failed to " + op,
		Err:     err,
	}
}

// CodeOf returns the AppError code in err's chain, or CodeStorageError for
// anything else.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorageError
}
