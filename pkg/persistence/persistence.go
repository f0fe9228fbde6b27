// Package persistence provides the storage abstraction for canvas documents.
package persistence

import (
	"context"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
)

// Persistence is the remote store contract the save controller depends on.
// UpsertWorkflow echoes the persisted record, including the server-assigned
// UpdatedAt, so callers can verify what was written.
type Persistence interface {
	Workflows(ctx context.Context, ownerID string) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	UpsertWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
