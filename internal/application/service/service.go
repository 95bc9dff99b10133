// Package service implements the workflow engine: one operation per legal
// state transition, each scoped to a single transaction with preconditions
// re-checked inside it.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

const (
	// conflictRetries bounds automatic retries of a whole operation after a
	// transient allocation or lock collision
	conflictRetries = 3

	// conflictBackoff is the base delay between retries
	conflictBackoff = 10 * time.Millisecond
)

// withConflictRetry runs fn, retrying the whole operation on
// ErrConflictRetry. Every other failure class is terminal for the request.
func withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(conflictBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = fn()
		if err == nil || !errors.Is(err, workflow.ErrConflictRetry) {
			return err
		}
	}
	return err
}
