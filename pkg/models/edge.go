package models

// Edge is a directed reference between two node ids. Source and Target must
// reference nodes that exist in the same document; the validator rejects
// dangling edges.
type Edge struct {
	ID           string `json:"id"     validate:"required"`
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"source_handle,omitempty"`
	TargetHandle string `json:"target_handle,omitempty"`
	Type         string `json:"type,omitempty"`
}
