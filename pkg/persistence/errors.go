// Package persistence provides standardized error types for store operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a document was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrOwnerRequired indicates an operation that needs an owner id was called without one.
	ErrOwnerRequired = errors.New("owner id is required")
)

// WorkflowError wraps document-related errors with additional context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g. "Upsert", "GetByID", "Delete")
	WorkflowID string // Document ID if applicable
	Err        error  // Underlying error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for workflow errors.
func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{
		Op:         op,
		WorkflowID: workflowID,
		Err:        err,
	}
}

// StoreError carries a machine-readable code and marks whether the failure
// is transient (retryable) or permanent. The save controller retries only
// transient failures.
type StoreError struct {
	Code      string
	Transient bool
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error %s: %v", e.Code, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps a failure with no definitive verdict, e.g. a
// network error or connection loss.
func NewTransientError(code string, err error) *StoreError {
	return &StoreError{Code: code, Transient: true, Err: err}
}

// NewPermanentError wraps a failure that will not succeed on retry, e.g. a
// constraint violation.
func NewPermanentError(code string, err error) *StoreError {
	return &StoreError{Code: code, Transient: false, Err: err}
}

// IsTransient reports whether err should be retried. Errors that do not
// carry a StoreError classification are treated as transient: the store gave
// no definitive verdict.
func IsTransient(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Transient
	}

	return err != nil
}

// IsWorkflowNotFound checks if an error indicates a document was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}
