package models

import (
	"encoding/json"
	"fmt"
)

// NodeKind is the closed set of content categories a canvas node can carry.
// The kind fully determines the payload shape (see payload.go).
type NodeKind string

const (
	NodeKindText      NodeKind = "text"      // Plain text block
	NodeKindPDF       NodeKind = "pdf"       // Uploaded PDF document
	NodeKindVoice     NodeKind = "voice"     // Voice recording with optional transcript
	NodeKindImage     NodeKind = "image"     // Image with optional analysis
	NodeKindYouTube   NodeKind = "youtube"   // Video-platform reference
	NodeKindInstagram NodeKind = "instagram" // Social-post reference
	NodeKindTemplate  NodeKind = "template"  // Generated template
	NodeKindIdea      NodeKind = "idea"      // Free-form idea
	NodeKindGroup     NodeKind = "group"     // Grouping container
	NodeKindConnector NodeKind = "connector" // Relationship connector
	NodeKindChat      NodeKind = "chat"      // Chat transcript
	NodeKindWebpage   NodeKind = "webpage"   // Web-page excerpt
)

// NodeKinds lists every registered kind, in a stable order.
func NodeKinds() []NodeKind {
	return []NodeKind{
		NodeKindText,
		NodeKindPDF,
		NodeKindVoice,
		NodeKindImage,
		NodeKindYouTube,
		NodeKindInstagram,
		NodeKindTemplate,
		NodeKindIdea,
		NodeKindGroup,
		NodeKindConnector,
		NodeKindChat,
		NodeKindWebpage,
	}
}

// KnownKind reports whether kind belongs to the closed set.
func KnownKind(kind NodeKind) bool {
	for _, k := range NodeKinds() {
		if k == kind {
			return true
		}
	}

	return false
}

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed content unit in the document graph. Payload holds the
// kind-specific data as it arrived off the wire; DecodePayload dispatches it
// into the typed struct for the node's kind.
type Node struct {
	ID       string         `json:"id"       validate:"required"`
	Kind     NodeKind       `json:"kind"     validate:"required"`
	Position Position       `json:"position"`
	Payload  map[string]any `json:"payload"`
}

// Clone returns a deep copy of the node, including nested payload values.
func (n *Node) Clone() *Node {
	clone := *n
	clone.Payload = deepCopyMap(n.Payload)

	return &clone
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}

	return dst
}

func deepCopyValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return deepCopyMap(value)
	case []any:
		items := make([]any, len(value))
		for i, item := range value {
			items[i] = deepCopyValue(item)
		}

		return items
	default:
		return value
	}
}

// DecodePayload converts the node's raw payload into the typed struct for its
// kind. The returned value is one of the *Payload structs in payload.go.
func (n *Node) DecodePayload() (NodePayload, error) {
	payload := newPayload(n.Kind)
	if payload == nil {
		return nil, fmt.Errorf("unknown node kind: %s", n.Kind)
	}

	raw, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for node %s: %w", n.ID, err)
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload for node %s: %w", n.Kind, n.ID, err)
	}

	return payload, nil
}
