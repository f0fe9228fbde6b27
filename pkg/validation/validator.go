// Package validation gates document snapshots before they may be written to
// the remote store.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Issue describes one validation failure. NodeID is empty for document-level
// failures.
type Issue struct {
	NodeID string `json:"node_id,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	if i.NodeID != "" {
		return fmt.Sprintf("node %s: %s", i.NodeID, i.Reason)
	}

	return i.Reason
}

// Summary renders a short human-readable message for the status callback.
func Summary(issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}

	const maxShown = 3

	parts := make([]string, 0, maxShown)
	for i, issue := range issues {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("and %d more", len(issues)-maxShown))

			break
		}

		parts = append(parts, issue.String())
	}

	return strings.Join(parts, "; ")
}

// Validator checks document shape and per-node payload schemas. It is
// read-only over its input and safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	schemas  map[models.NodeKind]*gojsonschema.Schema
}

// New compiles the per-kind payload schemas and returns a ready validator.
func New() (*Validator, error) {
	schemas := make(map[models.NodeKind]*gojsonschema.Schema, len(kindSchemas))

	for kind, raw := range kindSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for kind %s: %w", kind, err)
		}

		schemas[kind] = schema
	}

	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		schemas:  schemas,
	}, nil
}

// Validate returns the full list of failures for the document; an empty list
// means the snapshot may be written. Failures are reported per node so the
// UI can point at the offending content.
func (v *Validator) Validate(workflow *models.Workflow) []Issue {
	if workflow == nil {
		return []Issue{{Reason: "document is nil"}}
	}

	issues := v.validateTopLevel(workflow)

	seen := make(map[string]struct{}, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if node == nil {
			issues = append(issues, Issue{Reason: "document contains a nil node"})

			continue
		}

		if _, dup := seen[node.ID]; dup {
			issues = append(issues, Issue{NodeID: node.ID, Field: "id", Reason: "duplicate node id"})
		}

		seen[node.ID] = struct{}{}

		issues = append(issues, v.validateNode(node)...)
	}

	issues = append(issues, validateEdges(workflow, seen)...)

	return issues
}

func (v *Validator) validateTopLevel(workflow *models.Workflow) []Issue {
	var issues []Issue

	err := v.validate.Struct(workflow)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				issues = append(issues, Issue{
					Field:  fieldErr.Namespace(),
					Reason: fmt.Sprintf("failed %q constraint", fieldErr.Tag()),
				})
			}
		} else {
			issues = append(issues, Issue{Reason: "document failed structural validation: " + err.Error()})
		}
	}

	return issues
}

func (v *Validator) validateNode(node *models.Node) []Issue {
	schema, ok := v.schemas[node.Kind]
	if !ok {
		return []Issue{{NodeID: node.ID, Field: "kind", Reason: fmt.Sprintf("unknown node kind %q", node.Kind)}}
	}

	payload := node.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return []Issue{{NodeID: node.ID, Field: "payload", Reason: "payload is not a valid document: " + err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		issues = append(issues, Issue{
			NodeID: node.ID,
			Field:  "payload." + resultErr.Field(),
			Reason: fmt.Sprintf("%s payload: %s", node.Kind, resultErr.Description()),
		})
	}

	return issues
}

func validateEdges(workflow *models.Workflow, nodeIDs map[string]struct{}) []Issue {
	var issues []Issue

	for _, edge := range workflow.Edges {
		if edge == nil {
			issues = append(issues, Issue{Reason: "document contains a nil edge"})

			continue
		}

		if edge.ID == "" {
			issues = append(issues, Issue{Field: "edges", Reason: "edge is missing an id"})
		}

		if _, ok := nodeIDs[edge.Source]; !ok {
			issues = append(issues, Issue{
				NodeID: edge.Source,
				Field:  "edges." + edge.ID + ".source",
				Reason: fmt.Sprintf("edge %s references missing source node %q", edge.ID, edge.Source),
			})
		}

		if _, ok := nodeIDs[edge.Target]; !ok {
			issues = append(issues, Issue{
				NodeID: edge.Target,
				Field:  "edges." + edge.ID + ".target",
				Reason: fmt.Sprintf("edge %s references missing target node %q", edge.ID, edge.Target),
			})
		}
	}

	return issues
}
