package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/boxed-dev/remalt-sub004/pkg/eventbus"
	"github.com/boxed-dev/remalt-sub004/pkg/events"
	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
	"github.com/boxed-dev/remalt-sub004/pkg/validation"
	"github.com/google/uuid"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

type Workflow struct {
	persistence persistence.Persistence
	validator   *validation.Validator
	publisher   eventbus.EventPublisher
}

// NewWorkflow creates a new workflow service. Create and Update run every
// document through the schema validator before it reaches the store; Delete
// announces the removal on the event bus when a publisher is configured.
func NewWorkflow(persistence persistence.Persistence, validator *validation.Validator, publisher eventbus.EventPublisher) *Workflow {
	return &Workflow{
		persistence: persistence,
		validator:   validator,
		publisher:   publisher,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflowsRequest contains options for listing workflows.
type ListWorkflowsRequest struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`

	OwnerID string

	SortBy    string `validate:"oneof=created_at updated_at name"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ListWorkflowsResponse contains the result of listing workflows.
type ListWorkflowsResponse struct {
	Workflows   []*models.Workflow `json:"workflows"`
	TotalCount  int                `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}

// ListWorkflows retrieves workflows with filtering, sorting, and pagination.
func (w *Workflow) ListWorkflows(ctx context.Context, req ListWorkflowsRequest) (*ListWorkflowsResponse, error) {
	if err := w.validateListWorkflowsRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	stored, err := w.persistence.Workflows(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	// Sort a copy; the store may hand out a slice it still owns.
	workflows := slices.Clone(stored)
	sortWorkflows(workflows, req.SortBy, req.SortOrder)

	total := len(workflows)

	if req.Offset >= total {
		return &ListWorkflowsResponse{
			Workflows:  []*models.Workflow{},
			TotalCount: total,
		}, nil
	}

	end := min(req.Offset+req.Limit, total)

	return &ListWorkflowsResponse{
		Workflows:   workflows[req.Offset:end],
		TotalCount:  total,
		HasNextPage: end < total,
	}, nil
}

func sortWorkflows(workflows []*models.Workflow, sortBy, sortOrder string) {
	slices.SortStableFunc(workflows, func(a, b *models.Workflow) int {
		var cmp int

		switch sortBy {
		case "name":
			cmp = strings.Compare(a.Name, b.Name)
		case "created_at":
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		default:
			cmp = a.UpdatedAt.Compare(b.UpdatedAt)
		}

		if sortOrder == "desc" {
			cmp = -cmp
		}

		return cmp
	})
}

// validateListWorkflowsRequest validates and sets defaults for the request.
func (w *Workflow) validateListWorkflowsRequest(req *ListWorkflowsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "updated_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListWorkflowsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.OwnerID != "" {
		req.OwnerID = strings.TrimSpace(req.OwnerID)
		if req.OwnerID == "" {
			return ErrEmptyOwnerID
		}
	}

	return nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// Create adds a new workflow to the store after validating it.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	now := time.Now().UTC()
	workflow.ID = uuid.New().String()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := w.validate("Create", workflow); err != nil {
		return nil, err
	}

	created, err := w.persistence.UpsertWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return created, nil
}

// Update replaces an existing workflow's document after validating it.
func (w *Workflow) Update(
	ctx context.Context,
	workflowID string,
	workflow *models.Workflow,
) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	existing, err := w.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrWorkflowNotFound
	}

	workflow.ID = workflowID
	workflow.UserID = existing.UserID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.validate("Update", workflow); err != nil {
		return nil, err
	}

	updated, err := w.persistence.UpsertWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return updated, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	existing, err := w.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrWorkflowNotFound
	}

	err = w.persistence.DeleteWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	w.publishDeleted(ctx, existing)

	return nil
}

func (w *Workflow) publishDeleted(ctx context.Context, workflow *models.Workflow) {
	if w.publisher == nil {
		return
	}

	event := events.WorkflowDeleted{
		BaseEvent: events.BaseEvent{
			ID:         uuid.New().String(),
			Type:       events.WorkflowDeletedEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: workflow.ID,
			UserID:     workflow.UserID,
		},
	}

	// The row is already gone; a publish failure is not a delete failure.
	_ = w.publisher.Publish(ctx, workflow.ID, event)
}

func (w *Workflow) validate(op string, workflow *models.Workflow) error {
	if w.validator == nil {
		return nil
	}

	issues := w.validator.Validate(workflow)
	if len(issues) == 0 {
		return nil
	}

	return NewValidationError(op, "INVALID_DOCUMENT", validation.Summary(issues), ErrInvalidDocument)
}
