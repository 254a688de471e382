package discovery

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrStoreUnavailable = errors.New("discovery store unavailable")
	ErrInvalidRequester = errors.New("requester id is required")
)

// StoreError wraps a failed store call. It matches ErrStoreUnavailable
// under errors.Is and unwraps to the underlying cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// storeError classifies a failed store call. Caller cancellation is passed
// through as-is so it is not reported as an outage.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
