package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/devcamper/internal/app/models"
)

// Register installs the custom rules on gin's validator engine and switches field
// names in errors to their JSON names.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return RegisterOn(v)
}

// RegisterOn installs the custom rules on v
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	rules := map[string]validator.Func{
		"career": validateCareer,
		"skill":  validateSkill,
		"role":   validateRole,
		"phone":  validatePhone,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s rule: %w", tag, err)
		}
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func validateCareer(fl validator.FieldLevel) bool {
	return models.Career(fl.Field().String()).Valid()
}

func validateSkill(fl validator.FieldLevel) bool {
	return models.Skill(fl.Field().String()).Valid()
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validatePhone(fl validator.FieldLevel) bool {
	return NewStringValidation(fl.Field().String()).
		WithMaxLength(PhoneMaxLength).
		WithPattern(CompiledPatterns.Phone).
		Validate()
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s can not be more than %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL with HTTP or HTTPS"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "career":
		careers := make([]string, len(models.Careers))
		for i, c := range models.Careers {
			careers[i] = string(c)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(careers, ", "))
	case "skill":
		return field + " must be one of: beginner, intermediate, advanced"
	case "role":
		return field + " must be one of: user, publisher, admin"
	case "phone":
		return field + " must be a valid phone number"
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// Messages flattens validator errors into one message per field
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FormatFieldError(fe))
	}
	return out
}
