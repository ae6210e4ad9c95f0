package session

import (
	"errors"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// TransientError reports a retryable bus fault that persisted through every
// attempt. Callers see it only after the arbiter has exhausted its budget.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient bus fault after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// FatalError reports a non-retryable bus fault. It aborts only the owning
// operation, never the session.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal bus fault: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err matches a known transient signature:
// a timeout, a missing response, or a garbled frame. Everything else,
// including a closed bus, is treated as non-retryable.
func IsTransient(err error) bool {
	return errors.Is(err, feetech.ErrTimeout) ||
		errors.Is(err, feetech.ErrNoResponse) ||
		errors.Is(err, feetech.ErrInvalidPacket)
}
