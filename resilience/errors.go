package resilience

import (
	"errors"
	"fmt"
)

// ErrMaxRetriesExceeded matches any *ExhaustedError via errors.Is.
var ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

// ExhaustedError is returned when every attempt failed with a retryable
// error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("resilience: gave up after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Is reports ErrMaxRetriesExceeded as a match.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrMaxRetriesExceeded
}
