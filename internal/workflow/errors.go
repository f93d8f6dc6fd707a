package workflow

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by storage adapters when a conditional update
// loses a race against a concurrent writer. Callers may re-read and retry.
var ErrConflict = errors.New("order was modified concurrently")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

func IsAuthorizationError(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

type InvalidStateError struct {
	Status  string
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s (status %q)", e.Message, e.Status)
}

func NewInvalidStateError(status, message string) *InvalidStateError {
	return &InvalidStateError{Status: status, Message: message}
}

func IsInvalidStateError(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// RevisionBudgetError signals that the buyer has spent every revision
// the order's policy allows.
type RevisionBudgetError struct {
	Max int
}

func (e *RevisionBudgetError) Error() string {
	return fmt.Sprintf("revision budget exhausted (%d of %d used)", e.Max, e.Max)
}

func IsRevisionBudgetError(err error) bool {
	var re *RevisionBudgetError
	return errors.As(err, &re)
}

// EmptyHistoryError means the order has no delivered versions yet, so
// version-dependent reads and transitions are not valid.
type EmptyHistoryError struct{}

func (e *EmptyHistoryError) Error() string {
	return "order has no delivered versions"
}

func IsEmptyHistoryError(err error) bool {
	var ee *EmptyHistoryError
	return errors.As(err, &ee)
}
