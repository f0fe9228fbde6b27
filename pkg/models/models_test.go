package models

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkflow_Defaults(t *testing.T) {
	workflow := NewWorkflow("user-123")

	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, "user-123", workflow.UserID)
	assert.Equal(t, DefaultWorkflowName, workflow.Name)
	assert.Equal(t, DefaultWorkflowDescription, workflow.Description)
	assert.Empty(t, workflow.Nodes)
	assert.Empty(t, workflow.Edges)
	assert.Equal(t, DefaultViewport(), workflow.Viewport)
	assert.Equal(t, CurrentMetadataVersion, workflow.Metadata.Version)
	assert.False(t, workflow.CreatedAt.IsZero())
}

func TestWorkflow_Validation_Valid(t *testing.T) {
	workflow := NewWorkflow("user-123")

	validate := validator.New()
	err := validate.Struct(workflow)
	assert.NoError(t, err)
}

func TestWorkflow_Validation_MissingUserID(t *testing.T) {
	workflow := NewWorkflow("")

	validate := validator.New()
	err := validate.Struct(workflow)
	assert.Error(t, err)
}

func TestWorkflow_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Workflow)
		want   bool
	}{
		{
			name:   "fresh document",
			modify: func(_ *Workflow) {},
			want:   true,
		},
		{
			name: "default name in different case",
			modify: func(w *Workflow) {
				w.Name = "untitled workflow"
			},
			want: true,
		},
		{
			name: "blank description",
			modify: func(w *Workflow) {
				w.Description = "   "
			},
			want: true,
		},
		{
			name: "renamed document",
			modify: func(w *Workflow) {
				w.Name = "My Flow"
			},
			want: false,
		},
		{
			name: "custom description",
			modify: func(w *Workflow) {
				w.Description = "research board"
			},
			want: false,
		},
		{
			name: "has a node",
			modify: func(w *Workflow) {
				w.Nodes = append(w.Nodes, &Node{ID: "n1", Kind: NodeKindText})
			},
			want: false,
		},
		{
			name: "has an edge",
			modify: func(w *Workflow) {
				w.Edges = append(w.Edges, &Edge{ID: "e1", Source: "a", Target: "b"})
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := NewWorkflow("user-123")
			tt.modify(workflow)
			assert.Equal(t, tt.want, workflow.IsEmpty())
		})
	}
}

func TestWorkflow_IsEmpty_Nil(t *testing.T) {
	var workflow *Workflow

	assert.True(t, workflow.IsEmpty())
}

func TestEqual_IgnoresTimestamps(t *testing.T) {
	a := NewWorkflow("user-123")
	b := a.Clone()
	b.UpdatedAt = b.UpdatedAt.Add(1000)

	assert.True(t, Equal(a, b))
}

func TestEqual_DetectsContentChange(t *testing.T) {
	a := NewWorkflow("user-123")
	a.Nodes = append(a.Nodes, &Node{
		ID:      "n1",
		Kind:    NodeKindText,
		Payload: map[string]any{"text": "hello"},
	})

	b := a.Clone()
	assert.True(t, Equal(a, b))

	b.Nodes[0].Payload["text"] = "changed"
	assert.False(t, Equal(a, b))
}

func TestEqual_NilAndEmptyCollectionsMatch(t *testing.T) {
	// A JSON body that omits nodes/edges decodes them as nil, while Clone
	// produces empty slices. Both spell "no content" and must compare equal.
	a := &Workflow{
		ID:     "wf-1",
		UserID: "user-123",
		Name:   "My Renamed Flow",
	}

	assert.True(t, Equal(a, a.Clone()))

	b := a.Clone()
	b.Metadata.Tags = []string{}
	assert.True(t, Equal(a, b))

	b.Nodes = []*Node{{ID: "n1", Kind: NodeKindText, Payload: map[string]any{"text": "hi"}}}
	assert.False(t, Equal(a, b))
}

func TestClone_IsDeep(t *testing.T) {
	original := NewWorkflow("user-123")
	original.Nodes = append(original.Nodes, &Node{
		ID:   "n1",
		Kind: NodeKindChat,
		Payload: map[string]any{
			"messages": []any{
				map[string]any{"id": "m1", "role": "user", "content": "hi"},
			},
		},
	})
	original.Edges = append(original.Edges, &Edge{ID: "e1", Source: "n1", Target: "n1"})
	original.Metadata.Tags = []string{"research"}

	clone := original.Clone()
	require.True(t, Equal(original, clone))

	clone.Nodes[0].Payload["messages"].([]any)[0].(map[string]any)["content"] = "edited"
	clone.Edges[0].Target = "n2"
	clone.Metadata.Tags[0] = "changed"

	assert.Equal(t, "hi", original.Nodes[0].Payload["messages"].([]any)[0].(map[string]any)["content"])
	assert.Equal(t, "n1", original.Edges[0].Target)
	assert.Equal(t, "research", original.Metadata.Tags[0])
}

func TestNode_DecodePayload_EveryKind(t *testing.T) {
	payloads := map[NodeKind]map[string]any{
		NodeKindText:      {"text": "hello"},
		NodeKindPDF:       {"url": "https://files.example.com/a.pdf", "file_name": "a.pdf"},
		NodeKindVoice:     {"audio_url": "https://files.example.com/a.webm", "duration_seconds": 12.5},
		NodeKindImage:     {"url": "https://files.example.com/a.png", "alt": "diagram"},
		NodeKindYouTube:   {"url": "https://youtube.com/watch?v=abc123", "video_id": "abc123"},
		NodeKindInstagram: {"url": "https://instagram.com/p/xyz/", "shortcode": "xyz"},
		NodeKindTemplate: {
			"template_id": "tpl-1",
			"title":       "Launch plan",
			"sections":    []any{map[string]any{"heading": "Hook", "content": "..."}},
		},
		NodeKindIdea:      {"title": "brand refresh"},
		NodeKindGroup:     {"label": "Research", "node_ids": []any{"n1", "n2"}},
		NodeKindConnector: {"label": "supports"},
		NodeKindChat: {
			"messages": []any{map[string]any{"id": "m1", "role": "user", "content": "hi"}},
		},
		NodeKindWebpage: {"url": "https://example.com", "title": "Example"},
	}

	for _, kind := range NodeKinds() {
		t.Run(string(kind), func(t *testing.T) {
			payload, ok := payloads[kind]
			require.True(t, ok, "missing fixture for kind %s", kind)

			node := &Node{ID: "n-" + string(kind), Kind: kind, Payload: payload}

			decoded, err := node.DecodePayload()
			require.NoError(t, err)
			assert.Equal(t, kind, decoded.PayloadKind())
		})
	}
}

func TestNode_DecodePayload_UnknownKind(t *testing.T) {
	node := &Node{ID: "n1", Kind: NodeKind("hologram")}

	_, err := node.DecodePayload()
	assert.Error(t, err)
}

func TestWorkflow_JSONRoundTrip(t *testing.T) {
	workflow := NewWorkflow("user-123")
	workflow.Name = "My Flow"
	workflow.Nodes = append(workflow.Nodes, &Node{
		ID:       "n1",
		Kind:     NodeKindYouTube,
		Position: Position{X: 120, Y: 80},
		Payload:  map[string]any{"url": "https://youtube.com/watch?v=abc123", "video_id": "abc123"},
	})
	workflow.Edges = append(workflow.Edges, &Edge{ID: "e1", Source: "n1", Target: "n1", Type: "smoothstep"})

	raw, err := json.Marshal(workflow)
	require.NoError(t, err)

	var decoded Workflow

	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, Equal(workflow, &decoded))
}
