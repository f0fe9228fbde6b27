// Package postgresql provides PostgreSQL-backed persistence for canvas
// documents.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence/sqlbase"
	"github.com/lib/pq"
)

// Persistence implements persistence.Persistence backed by PostgreSQL, one
// row per document with JSONB columns for the graph payload.
type Persistence struct {
	db     *sql.DB
	logger *slog.Logger
	repo   *WorkflowRepository
}

// NewPersistence opens a connection pool, runs migrations and returns a
// ready store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, db, migrations)
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:     db,
		logger: logger,
		repo:   NewWorkflowRepository(db, logger),
	}, nil
}

func (p *Persistence) Workflows(ctx context.Context, ownerID string) ([]*models.Workflow, error) {
	return p.repo.GetAll(ctx, ownerID)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.repo.GetByID(ctx, id)
}

func (p *Persistence) UpsertWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	return p.repo.Upsert(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.repo.Delete(ctx, id)
}

// HealthCheck verifies the database connection is alive.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the connection pool.
func (p *Persistence) Close(_ context.Context) error {
	return p.db.Close()
}

// classify wraps a driver error with a transient/permanent verdict. Integrity
// and data errors will not succeed on retry; connection-level failures might.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23", "42": // data, integrity, syntax/access
			return persistence.NewPermanentError(string(pqErr.Code), err)
		default:
			return persistence.NewTransientError(string(pqErr.Code), err)
		}
	}

	return persistence.NewTransientError("connection_error", err)
}
