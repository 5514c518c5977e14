package entities

import (
	"strings"

	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// maxNodeNameLength bounds waypoint names; the backing store indexes by name.
const maxNodeNameLength = 120

// Node is a named waypoint on the map. The name is the node's identity:
// uniqueness is enforced by the remote graph service, and the client treats
// a collision as a rejected mutation.
type Node struct {
	name     string
	position valueobjects.Coordinate
}

// NewNode creates a node with validation
func NewNode(name string, position valueobjects.Coordinate) (*Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidation("node name cannot be empty")
	}
	if len(name) > maxNodeNameLength {
		return nil, pkgerrors.NewValidation("node name is too long")
	}
	return &Node{name: name, position: position}, nil
}

// Name returns the node's unique name
func (n *Node) Name() string {
	return n.name
}

// Position returns the node's geographic position
func (n *Node) Position() valueobjects.Coordinate {
	return n.position
}
