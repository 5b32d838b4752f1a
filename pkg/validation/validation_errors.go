package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps json field names to user-facing labels
var FieldLabels = map[string]string{
	// Profile fields
	"handle":         "Profile handle",
	"company":        "Company",
	"website":        "Website",
	"location":       "Location",
	"bio":            "Bio",
	"status":         "Status",
	"githubusername": "GitHub username",
	"skills":         "Skills",
	"youtube":        "YouTube",
	"twitter":        "Twitter",
	"facebook":       "Facebook",
	"linkedin":       "LinkedIn",
	"instagram":      "Instagram",

	// Experience / Education fields
	"title":        "Job title",
	"school":       "School",
	"degree":       "Degree",
	"fieldofstudy": "Field of study",
	"from":         "From date",
	"to":           "To date",
	"description":  "Description",

	// Auth fields
	"name":      "Name",
	"email":     "Email",
	"password":  "Password",
	"password2": "Confirm password",
}

// Struct validates s with the shared validator and returns the field-keyed
// messages, or nil when s is valid.
func Struct(s interface{}) map[string]string {
	return FieldErrors(Default().Struct(s))
}

// FieldErrors converts validator.ValidationErrors into a map keyed by the
// json field name. Only the first failure per field is kept.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// InvalidValidationError and friends: programming errors, not input errors
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = formatSingleError(e)
	}
	return out
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := Label(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must not exceed %s characters", label, param)
		}
		return fmt.Sprintf("%s must not exceed %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "email":
		return fmt.Sprintf("%s is invalid", label)

	case "url":
		return "Not a valid URL"

	case "handle":
		return fmt.Sprintf("%s may only contain letters, numbers, '.', '-' and '_'", label)

	case "github_username":
		return fmt.Sprintf("%s is not a valid GitHub login", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)

	case "date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", label)

	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, Label(strings.ToLower(param)))

	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// Label returns the user-facing label for a json field name
func Label(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
