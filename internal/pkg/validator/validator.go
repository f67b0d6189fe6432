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
		validRoles := []string{"user", "admin", "influencer", "affiliate"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Dialogue language validation
	validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		lang := fl.Field().String()
		validLangs := []string{"en", "pt", "fr", "es", "it", "af", "zh", "ja", "ar", ""}
		for _, l := range validLangs {
			if lang == l {
				return true
			}
		}
		return false
	})

	// Aspect ratio validation
	validate.RegisterValidation("aspect_ratio", func(fl validator.FieldLevel) bool {
		ratio := fl.Field().String()
		validRatios := []string{"1:1", "9:16", "16:9", "4:3", "3:4", ""}
		for _, r := range validRatios {
			if ratio == r {
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
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "role":
			errors[field] = "Invalid role. Must be: user, admin, influencer, or affiliate"
		case "language":
			errors[field] = "Unsupported dialogue language"
		case "aspect_ratio":
			errors[field] = "Invalid aspect ratio. Must be one of: 1:1, 9:16, 16:9, 4:3, 3:4"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
