package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Cause tells callers why a storage operation failed.
type Cause string

const (
	CauseNotFound         Cause = "not_found"
	CausePermissionDenied Cause = "permission_denied"
	CauseUnavailable      Cause = "unavailable"
	CauseNetwork          Cause = "network"
	CauseUnknown          Cause = "unknown"
)

// ErrNotFound is matched by errors.Is for missing records.
var ErrNotFound = errors.New("record not found")

// Error wraps a driver error with its classified cause.
type Error struct {
	Op    string
	Cause Cause
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %s: %v", e.Op, e.Cause, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Cause == CauseNotFound
}

// CauseOf returns the cause of a storage error, or CauseUnknown.
func CauseOf(err error) Cause {
	var se *Error
	if errors.As(err, &se) {
		return se.Cause
	}
	return CauseUnknown
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Cause: classify(err), Err: err}
}

func classify(err error) Cause {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return CauseNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501" || pgErr.Code == "28000" || pgErr.Code == "28P01":
			return CausePermissionDenied
		case pgErr.Code == "53300" || pgErr.Code == "57P01" || pgErr.Code == "57P03" || strings.HasPrefix(pgErr.Code, "08"):
			return CauseUnavailable
		}
		return CauseUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CauseNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return CauseNetwork
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return CauseUnavailable
	}
	return CauseUnknown
}
