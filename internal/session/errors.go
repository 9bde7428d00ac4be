// ABOUTME: Error taxonomy for session control.
// ABOUTME: Validation, state, and persistence failures stay distinguishable.
package session

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks parameter validation failures. Nothing mutates
// when it is returned.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidState marks operations issued in the wrong lifecycle state,
// like finishing with no active session.
var ErrInvalidState = errors.New("invalid state")

// PersistenceError wraps a storage failure during Finish. The computed
// record is retained by the controller; calling Finish again retries the
// append without recomputation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
