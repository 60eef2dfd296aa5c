package record

import (
	"fmt"

	appErrors "company-data-manager/pkg/errors"
)

var ErrSalaryRequired = appErrors.Validation("salary", "salary must be greater than zero")

func ErrEmailDomain(domain string) error {
	return appErrors.Validation("email", fmt.Sprintf("email must end with @%s", domain))
}
