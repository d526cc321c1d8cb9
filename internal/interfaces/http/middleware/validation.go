// internal/interfaces/http/middleware/validation.go
package middleware

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// phonePattern accepts Egyptian mobile numbers
var phonePattern = regexp.MustCompile(`^01[0125][0-9]{8}$`)

var registerOnce sync.Once

// RegisterValidators adds the shop's custom tags to gin's validator and makes
// field errors report JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("egphone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("shoppassword", func(fl validator.FieldLevel) bool {
			return auth.PasswordPattern.MatchString(fl.Field().String())
		})
	})
}

// FormatValidationErrors converts validator errors to a field -> message map.
// It returns nil for errors that are not validation errors.
func FormatValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := out[e.Field()]; !seen {
			out[e.Field()] = getErrorMessage(e)
		}
	}
	return out
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "egphone":
		return "Phone must be a valid Egyptian mobile number"
	case "shoppassword":
		return "Password must start with an uppercase letter followed by 6 to 8 lowercase letters or digits"
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
