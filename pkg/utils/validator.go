package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	appErrors "company-data-manager/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

func ValidateStruct(s interface{}) error {
	return getValidator().Struct(s)
}

// FirstFieldError returns the json name and a readable message for the first
// failing field of a validator error.
func FirstFieldError(err error) (string, string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, fmt.Sprintf("%s is required", field)
	case "email":
		return field, fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return field, fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return field, fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "min", "gte", "gt":
		return field, fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return field, fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field, fmt.Sprintf("%s is invalid", field)
	}
}

func IsValidEmail(email string) bool {
	return getValidator().Var(email, "required,email") == nil
}

// ValidationError converts a validator failure into a VALIDATION_FAILED error
// naming the first failing field.
func ValidationError(err error) error {
	field, message := FirstFieldError(err)
	return appErrors.Validation(field, message)
}
