package services

import (
	"errors"
	"fmt"

	"github.com/roymathewwww/canteen-rush-ai/models"
)

// ValidationError flags malformed create-order input. Never retried;
// the caller sent something broken.
type ValidationError struct {
	message string
}

func (e ValidationError) Error() string { return e.message }

func newValidationError(format string, args ...any) error {
	return ValidationError{message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// InvalidTransitionError flags an illegal lifecycle edge, e.g. an
// order in "ready" asked to go back to "preparing".
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

func IsInvalidTransition(err error) bool {
	var t InvalidTransitionError
	return errors.As(err, &t)
}

// NotFoundError flags an unknown order id.
type NotFoundError struct {
	OrderID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

func IsNotFound(err error) bool {
	var n NotFoundError
	return errors.As(err, &n)
}

// PersistenceError flags a store failure. Transient failures (network
// blips, timeouts) keep the optimistic local change queued for a later
// reconciling fetch; everything else reverts it.
type PersistenceError struct {
	Op        string
	Err       error
	Transient bool
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

func IsPersistence(err error) bool {
	var p PersistenceError
	return errors.As(err, &p)
}
