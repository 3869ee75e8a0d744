package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator, configured to report JSON field names.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterAlias("role", "oneof=customer agent")
		validate.RegisterAlias("ticketstatus", "oneof=open in_progress resolved")
	})
	return validate
}

// Struct validates payload and returns a VALIDATION_FAILED DomainError carrying per-field details.
func Struct(payload any) error {
	if err := Validator().Struct(payload); err != nil {
		return apperrors.NewValidationError("invalid payload", ToDetails(err))
	}
	return nil
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]any {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]any{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]any{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "role":
		return "must be one of: customer agent"
	case "ticketstatus":
		return "must be one of: open in_progress resolved"
	case "oneof":
		return "must be one of: " + param
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "alphanumunicode":
		return "must contain only letters and numbers"
	case "excludesall":
		return "must not contain any of: " + param
	default:
		return "is invalid"
	}
}

// BindError reports a body that could not be decoded.
func BindError(err error) error {
	return apperrors.NewValidationError("invalid payload", ToDetails(err))
}
