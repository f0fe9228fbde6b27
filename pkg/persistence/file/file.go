// Package file provides file-based persistence for canvas documents, used
// for local development and tests.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system: one
// JSON file per document under {root}/workflows.
type Persistence struct {
	root string
}

// NewPersistence creates a file store rooted at the given directory. The
// "file://" prefix of a database URL is stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists or can be created.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	return os.MkdirAll(fp.workflowsDir(), 0o755)
}

func (fp *Persistence) workflowsDir() string {
	return filepath.Join(fp.root, "workflows")
}

func (fp *Persistence) workflowPath(id string) string {
	return filepath.Join(fp.workflowsDir(), id+".json")
}

// Workflows returns every document owned by ownerID, or every document when
// ownerID is empty.
func (fp *Persistence) Workflows(_ context.Context, ownerID string) ([]*models.Workflow, error) {
	entries, err := os.ReadDir(fp.workflowsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return make([]*models.Workflow, 0), nil
		}

		return nil, fmt.Errorf("failed to read workflows directory: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		workflow, err := fp.readWorkflow(filepath.Join(fp.workflowsDir(), entry.Name()))
		if err != nil {
			return nil, err
		}

		if ownerID != "" && workflow.UserID != ownerID {
			continue
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// WorkflowByID returns the document with the given id.
func (fp *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	workflow, err := fp.readWorkflow(fp.workflowPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, err
	}

	return workflow, nil
}

// UpsertWorkflow writes the document and echoes the persisted record with a
// freshly assigned UpdatedAt.
func (fp *Persistence) UpsertWorkflow(_ context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := os.MkdirAll(fp.workflowsDir(), 0o755); err != nil {
		return nil, persistence.NewTransientError("mkdir_failed", err)
	}

	persisted := workflow.Clone()
	persisted.UpdatedAt = time.Now().UTC()

	if persisted.CreatedAt.IsZero() {
		persisted.CreatedAt = persisted.UpdatedAt
	}

	raw, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return nil, persistence.NewPermanentError("encode_failed", err)
	}

	if err := os.WriteFile(fp.workflowPath(workflow.ID), raw, 0o644); err != nil {
		return nil, persistence.NewTransientError("write_failed", err)
	}

	return persisted, nil
}

// DeleteWorkflow removes the document file.
func (fp *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	err := os.Remove(fp.workflowPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
		}

		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (fp *Persistence) readWorkflow(path string) (*models.Workflow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var workflow models.Workflow

	if err := json.Unmarshal(raw, &workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow file %s: %w", path, err)
	}

	return &workflow, nil
}
