// Package validator wraps go-playground/validator with the tags this service uses.
package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// slugRegex: lowercase letters, numbers and single hyphens, alphanumeric at both ends.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
	enums    map[string][]string
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", e.Field, e.Message)
	}
	return sb.String()
}

// New creates a Validator with the slug tag registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", validateSlug)

	// Report json names so errors match request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, enums: make(map[string][]string)}
}

// RegisterEnum registers tag as "value must be one of values". Empty values
// pass so that required stays in charge of presence. Call before use.
func (v *Validator) RegisterEnum(tag string, values ...string) {
	allowed := slices.Clone(values)
	v.enums[tag] = allowed
	_ = v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || slices.Contains(allowed, value)
	})
}

// Validate validates a struct and returns ValidationErrors if validation fails.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		result = append(result, ValidationError{
			Field:   e.Field(),
			Message: v.formatErrorMessage(e),
		})
	}
	return result
}

// ValidSlug reports whether s is a well-formed slug.
func ValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return slugRegex.MatchString(value)
}

func (v *Validator) formatErrorMessage(e validator.FieldError) string {
	if allowed, ok := v.enums[e.Tag()]; ok {
		return "must be one of: " + strings.Join(allowed, ", ")
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "email":
		return "must be a valid email address"
	case "slug":
		return "must contain only lowercase letters, numbers and single hyphens"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
