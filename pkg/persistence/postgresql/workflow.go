package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
)

// WorkflowRepository handles document-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , user_id
  , name
  , description
  , nodes
  , edges
  , viewport
  , metadata
  , created_at
  , updated_at
`

// GetAll returns the documents owned by ownerID, most recently updated
// first; with an empty ownerID it returns every document.
func (r *WorkflowRepository) GetAll(ctx context.Context, ownerID string) ([]*models.Workflow, error) {
	query := `SELECT` + workflowColumns + `FROM workflows`

	var args []any

	if ownerID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, ownerID)
	}

	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query workflows: %w", err))
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("error iterating workflows: %w", err))
	}

	return workflows, nil
}

// GetByID returns the document with the given id.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT` + workflowColumns + `FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, classify(fmt.Errorf("failed to scan workflow: %w", err))
	}

	return workflow, nil
}

// Upsert inserts or updates the document row and returns the persisted
// record as the database now holds it, including the server-assigned
// updated_at.
func (r *WorkflowRepository) Upsert(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	nodes, err := json.Marshal(workflow.Nodes)
	if err != nil {
		return nil, persistence.NewPermanentError("encode_nodes", err)
	}

	edges, err := json.Marshal(workflow.Edges)
	if err != nil {
		return nil, persistence.NewPermanentError("encode_edges", err)
	}

	viewport, err := json.Marshal(workflow.Viewport)
	if err != nil {
		return nil, persistence.NewPermanentError("encode_viewport", err)
	}

	metadata, err := json.Marshal(workflow.Metadata)
	if err != nil {
		return nil, persistence.NewPermanentError("encode_metadata", err)
	}

	createdAt := workflow.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO workflows (id, user_id, name, description, nodes, edges, viewport, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			user_id     = EXCLUDED.user_id
		  , name        = EXCLUDED.name
		  , description = EXCLUDED.description
		  , nodes       = EXCLUDED.nodes
		  , edges       = EXCLUDED.edges
		  , viewport    = EXCLUDED.viewport
		  , metadata    = EXCLUDED.metadata
		  , updated_at  = NOW()
		RETURNING` + workflowColumns

	row := r.db.QueryRowContext(ctx, query,
		workflow.ID,
		workflow.UserID,
		workflow.Name,
		workflow.Description,
		nodes,
		edges,
		viewport,
		metadata,
		createdAt,
	)

	persisted, err := scanWorkflow(row)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to upsert workflow %s: %w", workflow.ID, err))
	}

	return persisted, nil
}

// Delete removes the document row.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return classify(fmt.Errorf("failed to delete workflow %s: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow models.Workflow
		nodes    []byte
		edges    []byte
		viewport []byte
		metadata []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.UserID,
		&workflow.Name,
		&workflow.Description,
		&nodes,
		&edges,
		&viewport,
		&metadata,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(nodes, &workflow.Nodes); err != nil {
		return nil, fmt.Errorf("failed to decode nodes: %w", err)
	}

	if err := json.Unmarshal(edges, &workflow.Edges); err != nil {
		return nil, fmt.Errorf("failed to decode edges: %w", err)
	}

	if err := json.Unmarshal(viewport, &workflow.Viewport); err != nil {
		return nil, fmt.Errorf("failed to decode viewport: %w", err)
	}

	if err := json.Unmarshal(metadata, &workflow.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	return &workflow, nil
}
