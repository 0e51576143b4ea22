// Package validation adapts go-playground/validator results into apperr
// violations keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carson-networks/wallet-server/internal/apperr"
)

// New returns a validator that reports fields by their json tag name. It
// also knows maxbytes, a length limit in bytes rather than characters.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// Struct validates s and converts failures into an apperr validation error
// with the given message. reasons overrides the text for custom tags.
func Struct(v *validator.Validate, s any, message string, reasons map[string]string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Unexpected(err)
	}
	violations := make([]apperr.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apperr.Violation{
			Field:  fe.Field(),
			Reason: reason(fe, reasons),
		})
	}
	return apperr.Validation(message, violations...)
}

func reason(fe validator.FieldError, reasons map[string]string) string {
	if r, ok := reasons[fe.Tag()]; ok {
		return r
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes long", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
