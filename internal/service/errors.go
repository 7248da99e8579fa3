// Package service holds the booking, lodging, payment, ticketing and
// enrollment capabilities.  Every capability returns either a value or an
// error that matches (errors.Is) exactly one of the sentinels below; any
// other error is an unexpected data-layer failure.
package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrPaymentRequired = errors.New("payment required")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
)

// fail attaches a caller-facing message to one of the sentinels.  The
// message becomes the error text; errors.Is still matches the kind.
func fail(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

// Message returns the caller-facing text of a domain error, or "" when
// err is not one.
func Message(err error) string {
	var de *domainError
	if errors.As(err, &de) {
		return de.msg
	}
	return ""
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
