package models

import (
	"fmt"
	"strings"
)

// ValidationError reports a record that failed its schema checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func invalidEnum(field string, value any, allowed ...string) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("has invalid value %q (allowed: %s)", fmt.Sprint(value), strings.Join(allowed, ", ")),
	}
}
