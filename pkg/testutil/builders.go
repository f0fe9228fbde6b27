// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a test Node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:       uuid.New().String(),
		Kind:     models.NodeKindText,
		Position: models.Position{X: 100, Y: 200},
		Payload:  map[string]any{"text": "test content"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithKind sets the node kind and replaces the payload with a minimal valid
// payload for that kind.
func WithKind(kind models.NodeKind) func(*models.Node) {
	return func(n *models.Node) {
		n.Kind = kind
		n.Payload = MinimalPayload(kind)
	}
}

// WithPayload sets the node payload.
func WithPayload(payload map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Payload = payload
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// WithNodeID sets the node id.
func WithNodeID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// CreateTestWorkflow creates a test Workflow with one text node that can be
// overridden.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := models.NewWorkflow("test-user")
	workflow.Name = "Test Canvas"
	workflow.Description = "canvas for tests"
	workflow.Nodes = []*models.Node{CreateTestNode()}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithOwner sets the workflow owner.
func WithOwner(userID string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.UserID = userID
	}
}

// WithName sets the workflow name.
func WithName(name string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Name = name
	}
}

// WithNodes replaces the workflow nodes.
func WithNodes(nodes ...*models.Node) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Nodes = nodes
	}
}

// WithEdges replaces the workflow edges.
func WithEdges(edges ...*models.Edge) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Edges = edges
	}
}

// ConnectNodes creates an edge between two nodes.
func ConnectNodes(source, target *models.Node) *models.Edge {
	return &models.Edge{
		ID:     uuid.New().String(),
		Source: source.ID,
		Target: target.ID,
	}
}

// MinimalPayload returns the smallest payload that satisfies the kind's
// schema.
func MinimalPayload(kind models.NodeKind) map[string]any {
	switch kind {
	case models.NodeKindText:
		return map[string]any{"text": "hello"}
	case models.NodeKindPDF:
		return map[string]any{"url": "https://example.com/doc.pdf"}
	case models.NodeKindVoice:
		return map[string]any{"audio_url": "https://example.com/clip.mp3"}
	case models.NodeKindImage:
		return map[string]any{"url": "https://example.com/pic.png"}
	case models.NodeKindYouTube:
		return map[string]any{"url": "https://youtube.com/watch?v=abc", "video_id": "abc"}
	case models.NodeKindInstagram:
		return map[string]any{"url": "https://instagram.com/p/abc", "shortcode": "abc"}
	case models.NodeKindTemplate:
		return map[string]any{"template_id": "tpl-1", "title": "Template", "sections": []any{}}
	case models.NodeKindIdea:
		return map[string]any{"title": "a thought"}
	case models.NodeKindGroup:
		return map[string]any{"label": "Group", "node_ids": []any{}}
	case models.NodeKindConnector:
		return map[string]any{}
	case models.NodeKindChat:
		return map[string]any{"messages": []any{}}
	case models.NodeKindWebpage:
		return map[string]any{"url": "https://example.com"}
	default:
		return map[string]any{}
	}
}
