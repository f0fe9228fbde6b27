// Package events defines event types for canvas document lifecycle
// notifications.
package events

import (
	"time"
)

type EventType string

// Topic carries all canvas document events.
const Topic = "remalt.canvas.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowSavedEvent      EventType = "workflow.saved"
	WorkflowSaveFailedEvent EventType = "workflow.save.failed"
	WorkflowDeletedEvent    EventType = "workflow.deleted"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
	UserID     string    `json:"user_id,omitempty"`
}

// WorkflowSaved is published after a snapshot has been successfully
// persisted to the remote store.
type WorkflowSaved struct {
	BaseEvent

	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	SavedAt   time.Time `json:"saved_at"`
}

func (w WorkflowSaved) GetType() EventType {
	return WorkflowSavedEvent
}

// WorkflowSaveFailed is published when a save reaches a terminal failure:
// either the snapshot failed validation or the retry budget was exhausted.
type WorkflowSaveFailed struct {
	BaseEvent

	Reason  string `json:"reason"`
	Retried bool   `json:"retried"`
}

func (w WorkflowSaveFailed) GetType() EventType {
	return WorkflowSaveFailedEvent
}

// WorkflowDeleted is published after a document has been removed from the
// remote store.
type WorkflowDeleted struct {
	BaseEvent
}

func (w WorkflowDeleted) GetType() EventType {
	return WorkflowDeletedEvent
}
