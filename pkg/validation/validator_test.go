package validation

import (
	"testing"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()

	v, err := New()
	require.NoError(t, err)

	return v
}

func validWorkflow() *models.Workflow {
	workflow := models.NewWorkflow("user-123")
	workflow.Name = "My Flow"
	workflow.Nodes = []*models.Node{
		{
			ID:      "n1",
			Kind:    models.NodeKindText,
			Payload: map[string]any{"text": "hello"},
		},
		{
			ID:      "n2",
			Kind:    models.NodeKindYouTube,
			Payload: map[string]any{"url": "https://youtube.com/watch?v=abc", "video_id": "abc"},
		},
	}
	workflow.Edges = []*models.Edge{
		{ID: "e1", Source: "n1", Target: "n2", Type: "default"},
	}

	return workflow
}

func TestValidate_ValidDocument(t *testing.T) {
	v := newTestValidator(t)

	issues := v.Validate(validWorkflow())
	assert.Empty(t, issues)
}

func TestValidate_NilDocument(t *testing.T) {
	v := newTestValidator(t)

	issues := v.Validate(nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "document is nil", issues[0].Reason)
}

func TestValidate_MissingName(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Name = ""

	issues := v.Validate(workflow)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Field, "Name")
}

func TestValidate_ZeroZoom(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Viewport.Zoom = 0

	issues := v.Validate(workflow)
	assert.NotEmpty(t, issues)
}

func TestValidate_PayloadKindMismatch(t *testing.T) {
	v := newTestValidator(t)

	// A youtube-shaped payload on a node that claims to be text.
	workflow := validWorkflow()
	workflow.Nodes[0].Payload = map[string]any{"url": "https://youtube.com/watch?v=abc", "video_id": "abc"}

	issues := v.Validate(workflow)
	require.NotEmpty(t, issues)
	assert.Equal(t, "n1", issues[0].NodeID)
	assert.Contains(t, issues[0].Reason, "text payload")
}

func TestValidate_UnknownKind(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Nodes = append(workflow.Nodes, &models.Node{ID: "n3", Kind: models.NodeKind("hologram")})

	issues := v.Validate(workflow)
	require.Len(t, issues, 1)
	assert.Equal(t, "n3", issues[0].NodeID)
	assert.Contains(t, issues[0].Reason, "unknown node kind")
}

func TestValidate_WrongPayloadValueType(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Nodes[0].Payload = map[string]any{"text": 42}

	issues := v.Validate(workflow)
	require.NotEmpty(t, issues)
	assert.Equal(t, "n1", issues[0].NodeID)
}

func TestValidate_DuplicateNodeIDs(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Nodes = append(workflow.Nodes, &models.Node{
		ID:      "n1",
		Kind:    models.NodeKindIdea,
		Payload: map[string]any{"title": "dup"},
	})

	issues := v.Validate(workflow)
	require.Len(t, issues, 1)
	assert.Equal(t, "duplicate node id", issues[0].Reason)
}

func TestValidate_DanglingEdge(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	workflow.Edges = append(workflow.Edges, &models.Edge{ID: "e2", Source: "n1", Target: "ghost"})

	issues := v.Validate(workflow)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Reason, "missing target node")
}

func TestValidate_EveryKindAccepted(t *testing.T) {
	v := newTestValidator(t)

	payloads := map[models.NodeKind]map[string]any{
		models.NodeKindText:      {"text": "hello"},
		models.NodeKindPDF:       {"url": "https://files.example.com/a.pdf"},
		models.NodeKindVoice:     {"audio_url": "https://files.example.com/a.webm"},
		models.NodeKindImage:     {"url": "https://files.example.com/a.png"},
		models.NodeKindYouTube:   {"url": "https://youtube.com/watch?v=abc", "video_id": "abc"},
		models.NodeKindInstagram: {"url": "https://instagram.com/p/xyz/", "shortcode": "xyz"},
		models.NodeKindTemplate:  {"template_id": "tpl-1", "title": "Launch plan"},
		models.NodeKindIdea:      {"title": "brand refresh"},
		models.NodeKindGroup:     {"label": "Research", "node_ids": []any{}},
		models.NodeKindConnector: {},
		models.NodeKindChat:      {"messages": []any{}},
		models.NodeKindWebpage:   {"url": "https://example.com"},
	}

	workflow := models.NewWorkflow("user-123")
	workflow.Name = "Every Kind"

	for _, kind := range models.NodeKinds() {
		payload, ok := payloads[kind]
		require.True(t, ok, "missing fixture for kind %s", kind)

		workflow.Nodes = append(workflow.Nodes, &models.Node{
			ID:      "n-" + string(kind),
			Kind:    kind,
			Payload: payload,
		})
	}

	issues := v.Validate(workflow)
	assert.Empty(t, issues)
}

func TestValidate_ReadOnlyAndRepeatable(t *testing.T) {
	v := newTestValidator(t)

	workflow := validWorkflow()
	clone := workflow.Clone()

	first := v.Validate(workflow)
	second := v.Validate(workflow)

	assert.Equal(t, first, second)
	assert.True(t, models.Equal(workflow, clone), "Validate must not mutate its input")
}

func TestSummary(t *testing.T) {
	assert.Empty(t, Summary(nil))

	issues := []Issue{
		{NodeID: "n1", Reason: "bad payload"},
		{Reason: "missing name"},
		{NodeID: "n2", Reason: "bad payload"},
		{NodeID: "n3", Reason: "bad payload"},
		{NodeID: "n4", Reason: "bad payload"},
	}

	summary := Summary(issues)
	assert.Contains(t, summary, "node n1: bad payload")
	assert.Contains(t, summary, "and 2 more")
}
