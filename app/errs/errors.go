// Package errs holds the error taxonomy shared by the store, the guard and the
// HTTP boundary. Callers test with errors.Is / errors.As.
package errs

import (
	"errors"
	"sort"
	"strings"

	"github.com/shashiranjanraj/cafehub/pkg/guard"
)

var (
	// store
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateName  = errors.New("a cafe with this name already exists")

	// guard
	ErrForbidden = guard.ErrForbidden

	// auth
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-level messages (field -> message).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, " ")
}

// Invalid builds a ValidationError, or returns nil when fields is empty.
func Invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
