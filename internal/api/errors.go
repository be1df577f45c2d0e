// Package api defines the JSON wire shapes of the YaMDb API and the
// request-time validation that runs before anything reaches the store.
// Validation failures are reported as a ValidationError keyed by field.
package api

import (
	"fmt"
	"sort"
	"strings"
)

// NonFieldErrors is the key for errors that concern the payload as a whole.
const NonFieldErrors = "non_field_errors"

// Messages shared by several validators.
const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
	msgSlug     = `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`
)

// ValidationError maps field names to their error messages. It marshals
// to the response body as-is.
type ValidationError map[string][]string

// Add appends msg to field's messages.
func (e ValidationError) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one message.
func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns e as an error, or nil when no messages were added.
func (e ValidationError) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError builds a single-field ValidationError.
func FieldError(field, msg string) ValidationError {
	return ValidationError{field: {msg}}
}

// maxLenMsg is the message for strings longer than n characters.
func maxLenMsg(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// UniqueMsg is the message for a value that already exists, e.g.
// "category with this slug already exists."
func UniqueMsg(model, field string) string {
	return fmt.Sprintf("%s with this %s already exists.", model, field)
}

// ReferenceMsg is the message for a slug that resolves to nothing.
func ReferenceMsg(value string) string {
	return fmt.Sprintf("Object with slug=%s does not exist.", value)
}
