package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
)

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

// newValidator reports fields by their json names and registers the storefront tags:
// client_id (storage namespace charset) and theme (light or dark).
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("client_id", func(fl validator.FieldLevel) bool {
		return clientIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "light" || s == "dark"
	})
	return v
}

// ValidateClientID checks the client storage namespace supplied by the browser.
func ValidateClientID(clientID string) error {
	if err := validate.Var(clientID, "required,min=8,max=64,client_id"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "X-Client-Id header must be 8-64 characters of letters, digits, '-' or '_'")
	}
	return nil
}

func structError(err error) *pkgerrors.Error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "theme":
		return "must be light or dark"
	}
	return "is invalid"
}
