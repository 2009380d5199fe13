package review

import (
	"errors"
	"fmt"
)

// Errors surfaced by ingestion and the load pipeline.
var (
	// ErrSourceNotFound indicates the source file path does not resolve.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrSourceMalformed indicates the source file exists but cannot be
	// parsed into the expected shape.
	ErrSourceMalformed = errors.New("source file malformed")

	// ErrStoreUnavailable indicates the relational store could not be
	// reached at pipeline start.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PipelineError wraps a failure in one of the pipeline steps. Work
// committed by earlier steps stays durable; only the failing step's
// uncommitted transaction is rolled back.
type PipelineError struct {
	Step string
	Err  error
}

// NewPipelineError creates a PipelineError for the given step.
func NewPipelineError(step string, err error) *PipelineError {
	return &PipelineError{Step: step, Err: err}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}
