package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/identity/errors"
)

// TagName is the custom tag for user names.
const TagName = "identname"

// A user name starts with a letter and is 3 to 32 characters of letters,
// digits, dots, dashes or underscores.
var nameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{2,31}$`)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError describes a single failing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
		_ = validate.RegisterValidation(TagName, func(fl validator.FieldLevel) bool {
			return nameRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate validates a struct using its `validate` tags.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.PreconditionFailed("Validation failed.")
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		message := formatValidationError(e)
		fieldErrors = append(fieldErrors, FieldError{Field: e.Field(), Message: message})
		messages = append(messages, e.Field()+": "+message)
	}

	return errors.PreconditionFailed(strings.Join(messages, "; ")).
		WithDetail("fields", fieldErrors)
}

// IsEmail reports whether ident is a well-formed email address.
func IsEmail(ident string) bool {
	return getValidator().Var(ident, "required,email,max=254") == nil
}

// IsURL reports whether s is an absolute URL with a scheme.
func IsURL(s string) bool {
	return getValidator().Var(s, "required,url") == nil
}

// IsName reports whether ident is a well-formed user name.
func IsName(ident string) bool {
	return getValidator().Var(ident, "required,"+TagName) == nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case TagName:
		return "must start with a letter and contain 3 to 32 letters, digits, dots, dashes or underscores"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
