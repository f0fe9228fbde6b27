package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowError_Unwrap(t *testing.T) {
	err := NewWorkflowError("Upsert", "wf-1", ErrWorkflowNotFound)

	assert.True(t, errors.Is(err, ErrWorkflowNotFound))
	assert.True(t, IsWorkflowNotFound(err))
	assert.Contains(t, err.Error(), "Upsert")
	assert.Contains(t, err.Error(), "wf-1")
}

func TestIsTransient(t *testing.T) {
	transient := NewTransientError("connection_reset", errors.New("broken pipe"))
	permanent := NewPermanentError("constraint_violation", errors.New("duplicate key"))

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))

	// Wrapped classifications survive.
	assert.True(t, IsTransient(fmt.Errorf("saving: %w", transient)))
	assert.False(t, IsTransient(fmt.Errorf("saving: %w", permanent)))

	// Unclassified errors default to transient, nil is not retryable.
	assert.True(t, IsTransient(errors.New("who knows")))
	assert.False(t, IsTransient(nil))
}
