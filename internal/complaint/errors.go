package complaint

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("complaint: invalid request")
	ErrUnauthenticated = errors.New("complaint: sign in required")
	ErrForbidden       = errors.New("complaint: admin role required")
	ErrNotFound        = errors.New("complaint: not found")
	// ErrAlreadyClosed is returned when a transition targets a complaint that is no longer Pending.
	ErrAlreadyClosed = errors.New("complaint: already resolved or rejected")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
