package cargorequest

import (
	"fmt"

	appErrors "company-data-manager/pkg/errors"
)

var (
	ErrNotItemOwner   = appErrors.Unauthorized("cargo item does not belong to one of your shipments")
	ErrInvalidOutcome = appErrors.Validation("status", "status must be Approved or Rejected")
	ErrChangeOnRemove = appErrors.Validation("proposed_change", "a Remove request cannot carry proposed changes")
)

func ErrAlreadyResolved(id uint, status Status) error {
	return appErrors.Validation("status", fmt.Sprintf("cargo request %d is already %s", id, status))
}
