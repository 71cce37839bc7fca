// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Error sentinels shared across the pipeline. Callers classify with
// errors.Is and wrap with fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrValidation marks a request rejected before any I/O happened.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing object or database artifact.
	ErrNotFound = errors.New("not found")

	// ErrExecution marks an operational failure in the backing store or
	// object store. Never retried here; resilience belongs to callers.
	ErrExecution = errors.New("execution failed")
)

// PartialFailure records archive members that were skipped because their
// objects could not be opened. The archive itself still finalized.
type PartialFailure struct {
	Skipped []string
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("archive finalized with %d skipped member(s)", len(e.Skipped))
}
