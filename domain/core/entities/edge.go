package entities

import (
	"strings"

	pkgerrors "pathfinder-backend/pkg/errors"
)

// Edge is a road segment between two named nodes. Edges are undirected for
// display and highlight purposes: an edge between A and B matches a path
// step in either direction.
type Edge struct {
	id     string
	source string
	target string
	weight *float64
}

// NewEdge creates an edge with validation. A nil weight means the remote
// service computes the distance from the endpoint coordinates.
func NewEdge(id, source, target string, weight *float64) (*Edge, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidation("edge id cannot be empty")
	}
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" || target == "" {
		return nil, pkgerrors.NewValidation("edge endpoints cannot be empty")
	}
	if source == target {
		return nil, pkgerrors.NewValidation("edge endpoints must be distinct nodes")
	}
	if weight != nil && *weight < 0 {
		return nil, pkgerrors.NewValidation("edge weight cannot be negative")
	}
	return &Edge{id: id, source: source, target: target, weight: weight}, nil
}

// ID returns the opaque edge identifier
func (e *Edge) ID() string {
	return e.id
}

// Source returns the source node name
func (e *Edge) Source() string {
	return e.source
}

// Target returns the target node name
func (e *Edge) Target() string {
	return e.target
}

// Weight returns the edge weight in kilometers, or false when the remote
// service computes it
func (e *Edge) Weight() (float64, bool) {
	if e.weight == nil {
		return 0, false
	}
	return *e.weight, true
}

// Connects reports whether the edge joins the two given nodes, in either
// direction
func (e *Edge) Connects(a, b string) bool {
	return (e.source == a && e.target == b) || (e.source == b && e.target == a)
}
