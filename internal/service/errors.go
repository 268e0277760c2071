// Package service implements the rental domain: the reservation engine,
// the payment stub and the reporting aggregator.
package service

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Handlers map them to HTTP status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrPaymentValidation = errors.New("payment validation failed")
	ErrForbidden         = errors.New("forbidden")
)

// Error is a domain failure with a message safe to show the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error { return newError(ErrValidation, format, args...) }
func notFoundf(format string, args ...any) error   { return newError(ErrNotFound, format, args...) }
func conflictf(format string, args ...any) error   { return newError(ErrConflict, format, args...) }
func paymentf(format string, args ...any) error    { return newError(ErrPaymentValidation, format, args...) }
