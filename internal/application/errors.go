package application

import "errors"

var (
	// ErrNotFound is returned when a referenced shift, coverage request or
	// offer does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidOperation is returned on business-rule violations: the shift
	// already started, the request is not tradeable, the offer was already
	// decided, or a duplicate pickup offer exists.
	ErrInvalidOperation = errors.New("application: invalid operation")
	// ErrConflict is returned when an availability check fails or an
	// assignment would collide with an existing one.
	ErrConflict = errors.New("application: scheduling conflict")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
