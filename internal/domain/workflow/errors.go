package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed or out-of-range fields,
	// always before any write
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced entity id does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when an operation is not legal from
	// the entity's current status
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCapacityExhausted is returned when the identifier space has no free ids
	ErrCapacityExhausted = errors.New("identifier space exhausted")

	// ErrConflictRetry is returned on a transient lock or allocation collision;
	// the whole operation is safe to retry
	ErrConflictRetry = errors.New("transient conflict, retry")

	// ErrStorageFailure is returned when the underlying store fails
	ErrStorageFailure = errors.New("storage failure")
)

// InvalidInputf builds an ErrInvalidInput with a formatted reason
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound naming the entity and id
func NotFoundf(kind string, id interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, kind, id)
}

// InvalidTransitionf builds an ErrInvalidTransition naming the entity, its
// current status and the attempted operation, so the failure is diagnosable
// from the message alone
func InvalidTransitionf(kind string, current fmt.Stringer, op Operation) error {
	return fmt.Errorf("%w: cannot %s %s in status %s", ErrInvalidTransition, op, kind, current)
}

// StorageFailure wraps a store error into the taxonomy
func StorageFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}
