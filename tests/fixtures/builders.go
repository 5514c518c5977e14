// Package fixtures provides test data builders.
package fixtures

import (
	"fmt"

	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// Coord builds a coordinate, panicking on invalid input; only for tests
func Coord(lat, lng float64) valueobjects.Coordinate {
	c, err := valueobjects.NewCoordinate(lat, lng)
	if err != nil {
		panic(err)
	}
	return c
}

// Edge builds an edge, panicking on invalid input; only for tests
func Edge(id, source, target string, weight float64) entities.Edge {
	e, err := entities.NewEdge(id, source, target, &weight)
	if err != nil {
		panic(err)
	}
	return *e
}

// PathBuilder assembles paths for tests
type PathBuilder struct {
	path entities.Path
}

// NewPathBuilder creates a builder with an empty path
func NewPathBuilder() *PathBuilder {
	return &PathBuilder{}
}

// WithNodes sets the node sequence
func (b *PathBuilder) WithNodes(names ...string) *PathBuilder {
	b.path.NodeSequence = names
	return b
}

// WithDistance sets the total distance in kilometers
func (b *PathBuilder) WithDistance(km float64) *PathBuilder {
	b.path.Distance = &km
	return b
}

// WithDuration sets the total duration in seconds
func (b *PathBuilder) WithDuration(sec float64) *PathBuilder {
	b.path.Duration = &sec
	return b
}

// WithCoordinates sets the road geometry
func (b *PathBuilder) WithCoordinates(coords ...valueobjects.Coordinate) *PathBuilder {
	b.path.Coordinates = coords
	return b
}

// WithStreets sets the street name summary
func (b *PathBuilder) WithStreets(names ...string) *PathBuilder {
	b.path.RouteInfo = names
	return b
}

// Build returns the assembled path
func (b *PathBuilder) Build() entities.Path {
	return b.path
}

// RomaniaNodes returns a small node snapshot of western Romania cities
func RomaniaNodes() map[string]valueobjects.Coordinate {
	return map[string]valueobjects.Coordinate{
		"Oradea": Coord(47.0722, 21.9217),
		"Zerind": Coord(46.6225, 21.5175),
		"Arad":   Coord(46.1866, 21.3123),
		"Sibiu":  Coord(45.7983, 24.1256),
	}
}

// RomaniaEdges returns edges matching RomaniaNodes
func RomaniaEdges() []entities.Edge {
	edges := []struct {
		source, target string
		weight         float64
	}{
		{"Oradea", "Zerind", 71},
		{"Zerind", "Arad", 75},
		{"Oradea", "Sibiu", 151},
		{"Arad", "Sibiu", 140},
	}

	out := make([]entities.Edge, 0, len(edges))
	for i, e := range edges {
		out = append(out, Edge(fmt.Sprintf("e%d", i+1), e.source, e.target, e.weight))
	}
	return out
}
