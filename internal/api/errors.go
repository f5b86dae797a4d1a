package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized is returned when the upstream answers 401. The client has
// already invalidated the session by the time callers see it.
var ErrUnauthorized = errors.New("session expired")

// APIError is a non-2xx upstream response other than 401/422.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// ValidationError is a 422 response with per-field errors flattened into one
// human-readable message.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// flattenFieldErrors joins per-field validation messages into a single
// sentence, in stable field order.
func flattenFieldErrors(message string, fields map[string][]string) string {
	var parts []string
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, strings.Join(fields[k], "; "))
	}
	if len(parts) == 0 {
		if message != "" {
			return message
		}
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
