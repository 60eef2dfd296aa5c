package record

import (
	"company-data-manager/internal/config"
	domainRecord "company-data-manager/internal/domain/record"
	domainUser "company-data-manager/internal/domain/user"
	appErrors "company-data-manager/pkg/errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ValidateEmployeeFields checks the fields only the employee path requires.
func ValidateEmployeeFields(department, position *string, salary *decimal.Decimal) error {
	if department == nil || strings.TrimSpace(*department) == "" {
		return appErrors.Validation("department", "department is required")
	}
	if position == nil || strings.TrimSpace(*position) == "" {
		return appErrors.Validation("position", "position is required")
	}
	if salary == nil || !salary.IsPositive() {
		return domainRecord.ErrSalaryRequired
	}
	return nil
}

// ValidateEmailDomain checks that email ends with @<domain of role>.
func ValidateEmailDomain(records *config.RecordsConfig, role domainUser.Role, email string) error {
	domain := records.DomainFor(string(role))
	if !strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(domain)) {
		return domainRecord.ErrEmailDomain(domain)
	}
	return nil
}

// roleForEmail infers the record role from its email domain. Clients are
// checked first so a shared domain never promotes a client to staff.
func roleForEmail(records *config.RecordsConfig, email string) (domainUser.Role, bool) {
	for _, role := range []domainUser.Role{domainUser.RoleClient, domainUser.RoleEmployee, domainUser.RoleManager} {
		if ValidateEmailDomain(records, role, email) == nil {
			return role, true
		}
	}
	return "", false
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, appErrors.Validation(field, field+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
