package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"super_admin", "admin", "senior_manager", "manager", "team_leader", "counselor"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Lead status validation
	validate.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []string{"new", "contacted", "qualified", "converted", "lost"}
		for _, s := range validStatuses {
			if status == s {
				return true
			}
		}
		return false
	})

	// Lead source validation
	validate.RegisterValidation("lead_source", func(fl validator.FieldLevel) bool {
		source := fl.Field().String()
		validSources := []string{"website", "meta", "google", ""}
		for _, s := range validSources {
			if source == s {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "uuid":
			errors[field] = "Invalid UUID format"
		case "role":
			errors[field] = "Invalid role"
		case "lead_status":
			errors[field] = "Invalid lead status. Must be: new, contacted, qualified, converted, or lost"
		case "lead_source":
			errors[field] = "Invalid lead source. Must be: website, meta, or google"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
