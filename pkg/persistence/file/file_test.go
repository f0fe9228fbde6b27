package file

import (
	"context"
	"testing"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Persistence {
	t.Helper()

	store := NewPersistence(t.TempDir())
	require.NoError(t, store.HealthCheck(context.Background()))

	return store
}

func sampleWorkflow(userID string) *models.Workflow {
	workflow := models.NewWorkflow(userID)
	workflow.Name = "My Flow"
	workflow.Nodes = []*models.Node{
		{ID: "n1", Kind: models.NodeKindText, Payload: map[string]any{"text": "hello"}},
	}

	return workflow
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	workflow := sampleWorkflow("user-1")

	persisted, err := store.UpsertWorkflow(ctx, workflow)
	require.NoError(t, err)
	assert.Equal(t, workflow.ID, persisted.ID)
	assert.False(t, persisted.UpdatedAt.IsZero())

	loaded, err := store.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.True(t, models.Equal(workflow, loaded))
}

func TestUpsert_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	workflow := sampleWorkflow("user-1")

	_, err := store.UpsertWorkflow(ctx, workflow)
	require.NoError(t, err)

	workflow.Name = "Renamed"
	_, err = store.UpsertWorkflow(ctx, workflow)
	require.NoError(t, err)

	loaded, err := store.WorkflowByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Name)
}

func TestWorkflowByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.WorkflowByID(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflows_FiltersByOwner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.UpsertWorkflow(ctx, sampleWorkflow("user-a"))
	require.NoError(t, err)
	_, err = store.UpsertWorkflow(ctx, sampleWorkflow("user-a"))
	require.NoError(t, err)
	_, err = store.UpsertWorkflow(ctx, sampleWorkflow("user-b"))
	require.NoError(t, err)

	all, err := store.Workflows(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := store.Workflows(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestDeleteWorkflow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	workflow := sampleWorkflow("user-1")
	_, err := store.UpsertWorkflow(ctx, workflow)
	require.NoError(t, err)

	require.NoError(t, store.DeleteWorkflow(ctx, workflow.ID))

	_, err = store.WorkflowByID(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.DeleteWorkflow(ctx, workflow.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}
