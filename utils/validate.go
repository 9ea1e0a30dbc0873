package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator/v10 tag validation and flattens the result
// into a field->message map suitable for a validation error response.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			errors[field] = fmt.Sprintf("%s is required!", fieldErr.Field())
		case "min":
			errors[field] = fmt.Sprintf("%s must be at least %s characters long!", fieldErr.Field(), fieldErr.Param())
		case "max":
			errors[field] = fmt.Sprintf("%s must be at most %s characters long!", fieldErr.Field(), fieldErr.Param())
		case "url":
			errors[field] = fmt.Sprintf("%s must be a valid URL!", fieldErr.Field())
		case "email":
			errors[field] = fmt.Sprintf("%s must be a valid email address!", fieldErr.Field())
		default:
			errors[field] = fmt.Sprintf("%s is invalid!", fieldErr.Field())
		}
	}
	return errors
}

// ParseTags coerces a comma-separated tag string into a trimmed slice,
// dropping empties.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags is the inverse of ParseTags for storage.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
