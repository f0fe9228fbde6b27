package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boxed-dev/remalt-sub004/pkg/eventbus"
	"github.com/boxed-dev/remalt-sub004/pkg/events"
	"github.com/boxed-dev/remalt-sub004/pkg/mocks"
	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
	"github.com/boxed-dev/remalt-sub004/pkg/testutil"
	"github.com/boxed-dev/remalt-sub004/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Workflow, *mocks.MockPersistence) {
	t.Helper()

	v, err := validation.New()
	require.NoError(t, err)

	store := &mocks.MockPersistence{}

	return NewWorkflow(store, v, nil), store
}

func TestWorkflow_Create(t *testing.T) {
	service, store := newTestService(t)

	store.On("UpsertWorkflow", mock.Anything, mock.AnythingOfType("*models.Workflow")).
		Return(testutil.CreateTestWorkflow(), nil)

	workflow := testutil.CreateTestWorkflow()
	workflow.ID = ""

	created, err := service.Create(context.Background(), workflow)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, workflow.ID, "create must assign an id")
	assert.False(t, workflow.CreatedAt.IsZero())
	store.AssertExpectations(t)
}

func TestWorkflow_Create_InvalidDocument(t *testing.T) {
	service, store := newTestService(t)

	workflow := testutil.CreateTestWorkflow()
	workflow.Nodes[0].Payload = map[string]any{"wrong": true}

	created, err := service.Create(context.Background(), workflow)
	require.Error(t, err)
	assert.Nil(t, created)
	assert.True(t, IsValidationError(err))
	store.AssertNotCalled(t, "UpsertWorkflow", mock.Anything, mock.Anything)
}

func TestWorkflow_Create_Nil(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrWorkflowNil)
}

func TestWorkflow_Update_PreservesOwnerAndCreatedAt(t *testing.T) {
	service, store := newTestService(t)

	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := testutil.CreateTestWorkflow(testutil.WithOwner("original-owner"))
	existing.CreatedAt = createdAt

	store.On("WorkflowByID", mock.Anything, existing.ID).Return(existing, nil)
	store.On("UpsertWorkflow", mock.Anything, mock.AnythingOfType("*models.Workflow")).
		Return(existing, nil)

	incoming := testutil.CreateTestWorkflow(testutil.WithOwner("someone-else"))

	_, err := service.Update(context.Background(), existing.ID, incoming)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, incoming.ID)
	assert.Equal(t, "original-owner", incoming.UserID)
	assert.Equal(t, createdAt, incoming.CreatedAt)
	assert.True(t, incoming.UpdatedAt.After(createdAt))
}

func TestWorkflow_Update_NotFound(t *testing.T) {
	service, store := newTestService(t)

	store.On("WorkflowByID", mock.Anything, "missing").
		Return(nil, persistence.ErrWorkflowNotFound)

	_, err := service.Update(context.Background(), "missing", testutil.CreateTestWorkflow())
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestWorkflow_Delete_PublishesDeletedEvent(t *testing.T) {
	v, err := validation.New()
	require.NoError(t, err)

	store := &mocks.MockPersistence{}
	bus := &mocks.MockEventBus{}
	service := NewWorkflow(store, v, bus)

	existing := testutil.CreateTestWorkflow(testutil.WithOwner("user-1"))

	store.On("WorkflowByID", mock.Anything, existing.ID).Return(existing, nil)
	store.On("DeleteWorkflow", mock.Anything, existing.ID).Return(nil)
	bus.On("Publish", mock.Anything, existing.ID, mock.MatchedBy(func(event eventbus.Event) bool {
		return event.GetType() == events.WorkflowDeletedEvent
	})).Return(nil)

	require.NoError(t, service.Delete(context.Background(), existing.ID))
	bus.AssertExpectations(t)
}

func TestWorkflow_Delete_NotFound(t *testing.T) {
	service, store := newTestService(t)

	store.On("WorkflowByID", mock.Anything, "missing").
		Return(nil, persistence.ErrWorkflowNotFound)

	err := service.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
	store.AssertNotCalled(t, "DeleteWorkflow", mock.Anything, mock.Anything)
}

func TestWorkflow_ListWorkflows_Pagination(t *testing.T) {
	service, store := newTestService(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	all := make([]*models.Workflow, 0, 5)

	for i := range 5 {
		w := testutil.CreateTestWorkflow()
		w.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		all = append(all, w)
	}

	store.On("Workflows", mock.Anything, "").Return(all, nil)

	result, err := service.ListWorkflows(context.Background(), ListWorkflowsRequest{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalCount)
	assert.True(t, result.HasNextPage)
	require.Len(t, result.Workflows, 2)

	// Default sort is updated_at desc.
	assert.Equal(t, all[4].ID, result.Workflows[0].ID)
	assert.Equal(t, all[3].ID, result.Workflows[1].ID)

	// The store's slice is not reordered behind its back.
	for i := range 5 {
		assert.Equal(t, base.Add(time.Duration(i)*time.Hour), all[i].UpdatedAt)
	}
}

func TestWorkflow_ListWorkflows_OffsetPastEnd(t *testing.T) {
	service, store := newTestService(t)

	store.On("Workflows", mock.Anything, "").Return([]*models.Workflow{}, nil)

	result, err := service.ListWorkflows(context.Background(), ListWorkflowsRequest{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, result.Workflows)
	assert.False(t, result.HasNextPage)
}

func TestWorkflow_ListWorkflows_InvalidSortField(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ListWorkflows(context.Background(), ListWorkflowsRequest{SortBy: "owner"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSortField))
}

func TestWorkflow_HealthCheck(t *testing.T) {
	service, store := newTestService(t)

	store.On("HealthCheck", mock.Anything).Return(nil)

	message, healthy := service.HealthCheck(context.Background())
	assert.True(t, healthy)
	assert.Contains(t, message, "healthy")
}
