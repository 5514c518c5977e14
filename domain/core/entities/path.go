package entities

import (
	"pathfinder-backend/domain/core/valueobjects"
)

// Path describes a route between waypoints. It merges two structurally
// different representations of the same logical route: a discrete node
// sequence from the graph search, and a continuous road-following polyline
// from the routing service. Either may be absent, their lengths are
// independent, and no 1:1 index correspondence between them is ever assumed.
type Path struct {
	NodeSequence []string                   `json:"nodeSequence,omitempty"`
	Coordinates  []valueobjects.Coordinate  `json:"coordinates,omitempty"`
	Distance     *float64                   `json:"distance,omitempty"` // kilometers
	Duration     *float64                   `json:"duration,omitempty"` // seconds
	RouteInfo    []string                   `json:"routeInfo,omitempty"` // street names
}

// IsEmpty reports whether the path carries neither representation
func (p Path) IsEmpty() bool {
	return len(p.NodeSequence) == 0 && len(p.Coordinates) == 0
}

// HasNodeSequence reports whether a graph-search node sequence is present
func (p Path) HasNodeSequence() bool {
	return len(p.NodeSequence) > 0
}

// ContainsNode reports whether the given node name appears in the node
// sequence
func (p Path) ContainsNode(name string) bool {
	for _, n := range p.NodeSequence {
		if n == name {
			return true
		}
	}
	return false
}

// AdjacentInSequence reports whether the two names appear at consecutive
// indices of the node sequence, in either order. Non-adjacent co-membership
// does not count: for the sequence [A,B,C], (A,B) and (B,C) are adjacent
// while (A,C) is not.
func (p Path) AdjacentInSequence(a, b string) bool {
	for i := 0; i+1 < len(p.NodeSequence); i++ {
		cur, next := p.NodeSequence[i], p.NodeSequence[i+1]
		if (cur == a && next == b) || (cur == b && next == a) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the path
func (p Path) Clone() Path {
	out := Path{}
	if len(p.NodeSequence) > 0 {
		out.NodeSequence = append([]string(nil), p.NodeSequence...)
	}
	if len(p.Coordinates) > 0 {
		out.Coordinates = append([]valueobjects.Coordinate(nil), p.Coordinates...)
	}
	if p.Distance != nil {
		d := *p.Distance
		out.Distance = &d
	}
	if p.Duration != nil {
		d := *p.Duration
		out.Duration = &d
	}
	if len(p.RouteInfo) > 0 {
		out.RouteInfo = append([]string(nil), p.RouteInfo...)
	}
	return out
}
