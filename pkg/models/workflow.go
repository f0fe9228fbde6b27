// Package models defines the core domain models for the canvas document graph.
package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a user opens a new canvas. A document that still
// carries both of them (and no content) is considered empty and is never
// persisted.
const (
	DefaultWorkflowName        = "Untitled Workflow"
	DefaultWorkflowDescription = "A new workflow"
)

// CurrentMetadataVersion is stamped into Metadata.Version on creation.
const CurrentMetadataVersion = 1

// Viewport is the camera state of the canvas. Always present; defaulted on
// creation.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom" validate:"gt=0"`
}

// DefaultViewport returns the camera state for a freshly opened canvas.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}

// Metadata carries document-level bookkeeping.
type Metadata struct {
	Version  int      `json:"version"  validate:"min=1"`
	Tags     []string `json:"tags"`
	IsPublic bool     `json:"is_public"`
	Category string   `json:"category,omitempty"`
}

// Workflow is the full canvas document: a typed graph of content nodes and
// connecting edges plus camera state and metadata. Ownership is enforced by
// the remote store, not here.
type Workflow struct {
	ID          string    `json:"id"          validate:"required"`
	UserID      string    `json:"user_id"     validate:"required"`
	Name        string    `json:"name"        validate:"required,min=1"`
	Description string    `json:"description,omitempty"`
	Nodes       []*Node   `json:"nodes"`
	Edges       []*Edge   `json:"edges"`
	Viewport    Viewport  `json:"viewport"`
	Metadata    Metadata  `json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWorkflow creates the document for a freshly opened canvas: generated id,
// default name, description and viewport, no nodes or edges.
func NewWorkflow(userID string) *Workflow {
	now := time.Now().UTC()

	return &Workflow{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        DefaultWorkflowName,
		Description: DefaultWorkflowDescription,
		Nodes:       make([]*Node, 0),
		Edges:       make([]*Edge, 0),
		Viewport:    DefaultViewport(),
		Metadata: Metadata{
			Version: CurrentMetadataVersion,
			Tags:    make([]string, 0),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the document is trivial enough to skip persisting:
// zero nodes, zero edges, the default name (case-insensitive) and a blank or
// default description.
func (w *Workflow) IsEmpty() bool {
	if w == nil {
		return true
	}

	if len(w.Nodes) > 0 || len(w.Edges) > 0 {
		return false
	}

	if !strings.EqualFold(strings.TrimSpace(w.Name), DefaultWorkflowName) {
		return false
	}

	description := strings.TrimSpace(w.Description)

	return description == "" || strings.EqualFold(description, DefaultWorkflowDescription)
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *Node {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// content is the projection of a Workflow that participates in structural
// equality. Timestamps are excluded: the store assigns UpdatedAt on every
// upsert, so including them would defeat no-op suppression.
type content struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Nodes       []*Node
	Edges       []*Edge
	Viewport    Viewport
	Metadata    Metadata
}

func (w *Workflow) content() content {
	// Nil and empty collections are the same content. Clone and JSON
	// decoding disagree on which one they produce, so the projection
	// normalizes before DeepEqual sees them.
	c := content{
		ID:          w.ID,
		UserID:      w.UserID,
		Name:        w.Name,
		Description: w.Description,
		Nodes:       w.Nodes,
		Edges:       w.Edges,
		Viewport:    w.Viewport,
		Metadata:    w.Metadata,
	}

	if len(c.Nodes) == 0 {
		c.Nodes = nil
	}

	if len(c.Edges) == 0 {
		c.Edges = nil
	}

	if len(c.Metadata.Tags) == 0 {
		c.Metadata.Tags = nil
	}

	return c
}

// Equal reports deep structural equality of two documents over their content
// fields. Used by the save controller for no-op suppression.
func Equal(a, b *Workflow) bool {
	if a == nil || b == nil {
		return a == b
	}

	return reflect.DeepEqual(a.content(), b.content())
}

// Clone returns a deep copy of the document. The save controller treats
// snapshots as immutable; every edit hands it a fresh clone rather than a
// mutation of a previous one.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	clone := *w

	clone.Nodes = make([]*Node, len(w.Nodes))
	for i, node := range w.Nodes {
		clone.Nodes[i] = node.Clone()
	}

	clone.Edges = make([]*Edge, len(w.Edges))
	for i, edge := range w.Edges {
		edgeCopy := *edge
		clone.Edges[i] = &edgeCopy
	}

	if w.Metadata.Tags != nil {
		clone.Metadata.Tags = make([]string, len(w.Metadata.Tags))
		copy(clone.Metadata.Tags, w.Metadata.Tags)
	}

	return &clone
}
