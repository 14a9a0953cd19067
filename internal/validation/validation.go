package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "ratehub/internal/errors"
)

// specialChars is the accepted punctuation/symbol set for passwords.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// New builds the validator used by the API layer: struct fields are reported
// under their JSON names and the password policy is registered as a rule.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Passwords must be 8-16 characters with at least one uppercase letter
	// and one special character.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		if len(pw) < 8 || len(pw) > 16 {
			return false
		}
		if !strings.ContainsFunc(pw, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
			return false
		}
		return strings.ContainsAny(pw, specialChars)
	})

	return v
}

// NormalizeEmail canonicalizes an email before any uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Translate flattens a validator error into one message per failing field.
// Every failing field is reported, not just the first.
func Translate(err error) []apperrors.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", displayName(fe.Field()))
	case "email":
		return "Please provide a valid email"
	case "password":
		return "Password must be between 8 and 16 characters, with at least one uppercase letter and one special character"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", displayName(fe.Field()), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", displayName(fe.Field()), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", displayName(fe.Field()), fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", displayName(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", displayName(fe.Field()))
	}
}

func displayName(field string) string {
	if field == "" {
		return "value"
	}
	field = strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(field[:1]) + field[1:]
}
