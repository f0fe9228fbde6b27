// Package web provides HTTP request and response types for the canvas API.
package web

import "github.com/boxed-dev/remalt-sub004/pkg/models"

// CreateWorkflowRequest represents the request body for creating a new canvas.
type CreateWorkflowRequest struct {
	UserID      string           `json:"user_id"               validate:"required"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Nodes       []*models.Node   `json:"nodes,omitempty"`
	Edges       []*models.Edge   `json:"edges,omitempty"`
	Viewport    *models.Viewport `json:"viewport,omitempty"`
}

// UpdateWorkflowRequest represents the request body for updating an existing
// canvas. All fields are optional to support partial updates; nodes and edges
// replace the stored graph wholesale when present.
type UpdateWorkflowRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string          `json:"description,omitempty"`
	Nodes       []*models.Node   `json:"nodes,omitempty"`
	Edges       []*models.Edge   `json:"edges,omitempty"`
	Viewport    *models.Viewport `json:"viewport,omitempty"`
	Metadata    *models.Metadata `json:"metadata,omitempty"`
}
