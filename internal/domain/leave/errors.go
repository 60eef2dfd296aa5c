package leave

import (
	"fmt"

	appErrors "company-data-manager/pkg/errors"
)

var (
	ErrDateOrder      = appErrors.Validation("end_date", "end date must not be before start date")
	ErrInvalidOutcome = appErrors.Validation("status", "status must be Approved or Rejected")
)

func ErrAlreadyResolved(id uint, status Status) error {
	return appErrors.Validation("status", fmt.Sprintf("leave request %d is already %s", id, status))
}
