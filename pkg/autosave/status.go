package autosave

import "time"

// SaveState is the per-document position in the save state machine. Exposed
// for the UI and for tests; transitions are driven by the controller.
type SaveState string

const (
	StateIdle       SaveState = "idle"
	StatePending    SaveState = "pending"    // debounce window ticking
	StateValidating SaveState = "validating"
	StateSaving     SaveState = "saving"
	StateRetryWait  SaveState = "retry_wait"
)

// Status is what the UI collaborator receives on every observable change:
// whether a write is in flight, the terminal error if any, and when the
// document was last successfully persisted.
type Status struct {
	Saving      bool
	Err         string
	LastSavedAt *time.Time
}

// StatusFunc receives status updates per document id. Called outside the
// controller's lock; implementations may block briefly but should not call
// back into the controller.
type StatusFunc func(workflowID string, status Status)
