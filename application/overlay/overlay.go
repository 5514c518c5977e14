// Package overlay computes the visual plan for the map layer: per-edge
// styling plus the active route's two independent polylines. The build is a
// pure projection of graph and route state so every consumer derives the
// identical picture.
package overlay

import (
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// Palette holds the style constants applied during a build. Values come
// from configuration so the visual identity can change without a deploy.
type Palette struct {
	PathColor     string  `yaml:"pathColor" json:"pathColor"`
	SelectedColor string  `yaml:"selectedColor" json:"selectedColor"`
	DefaultColor  string  `yaml:"defaultColor" json:"defaultColor"`
	PathWeight    int     `yaml:"pathWeight" json:"pathWeight"`
	DefaultWeight int     `yaml:"defaultWeight" json:"defaultWeight"`
	PathOpacity   float64 `yaml:"pathOpacity" json:"pathOpacity"`
	MutedOpacity  float64 `yaml:"mutedOpacity" json:"mutedOpacity"`
}

// DefaultPalette returns the styling used when configuration supplies none
func DefaultPalette() Palette {
	return Palette{
		PathColor:     "#2563eb",
		SelectedColor: "#dc2626",
		DefaultColor:  "#6b7280",
		PathWeight:    5,
		DefaultWeight: 2,
		PathOpacity:   0.9,
		MutedOpacity:  0.4,
	}
}

// EdgeStyle is the computed appearance of a single edge
type EdgeStyle struct {
	EdgeID   string                      `json:"edgeId"`
	Source   valueobjects.Coordinate     `json:"source"`
	Target   valueobjects.Coordinate     `json:"target"`
	Color    string                      `json:"color"`
	Weight   int                         `json:"weight"`
	Opacity  float64                     `json:"opacity"`
	OnPath   bool                        `json:"onPath"`
	Selected bool                        `json:"selected"`
}

// Polyline is an ordered coordinate sequence with its line style
type Polyline struct {
	Coordinates []valueobjects.Coordinate `json:"coordinates"`
	Color       string                    `json:"color"`
	Weight      int                       `json:"weight"`
	Opacity     float64                   `json:"opacity"`
	Dashed      bool                      `json:"dashed"`
}

// RenderPlan is the full overlay output for one consistent snapshot. The
// node and road polylines are independent: either may be present alone.
type RenderPlan struct {
	Edges        []EdgeStyle `json:"edges"`
	NodePolyline *Polyline   `json:"nodePolyline,omitempty"`
	RoadPolyline *Polyline   `json:"roadPolyline,omitempty"`
}

// Build computes the render plan from a node snapshot, the edge list, the
// active path (nil when none) and the current edge selection (nil when
// none). Edges whose endpoints are missing from the node snapshot are
// skipped without complaint: a stale edge list between a deletion and its
// refresh is a normal transient, not an error.
func Build(nodes map[string]valueobjects.Coordinate, edges []entities.Edge, active *entities.Path, selectedEdgeID *string, palette Palette) RenderPlan {
	plan := RenderPlan{Edges: make([]EdgeStyle, 0, len(edges))}

	for _, edge := range edges {
		source, ok := nodes[edge.Source()]
		if !ok {
			continue
		}
		target, ok := nodes[edge.Target()]
		if !ok {
			continue
		}

		style := EdgeStyle{
			EdgeID:  edge.ID(),
			Source:  source,
			Target:  target,
			Color:   palette.DefaultColor,
			Weight:  palette.DefaultWeight,
			Opacity: palette.MutedOpacity,
		}

		if active != nil && active.AdjacentInSequence(edge.Source(), edge.Target()) {
			style.OnPath = true
			style.Color = palette.PathColor
			style.Weight = palette.PathWeight
			style.Opacity = palette.PathOpacity
		}
		if selectedEdgeID != nil && edge.ID() == *selectedEdgeID {
			style.Selected = true
			// On-path edges keep the path color even while selected so the
			// route reading stays coherent.
			if !style.OnPath {
				style.Color = palette.SelectedColor
				style.Weight = palette.PathWeight
				style.Opacity = palette.PathOpacity
			}
		}

		plan.Edges = append(plan.Edges, style)
	}

	if active != nil {
		plan.NodePolyline = buildNodePolyline(nodes, active, palette)
		plan.RoadPolyline = buildRoadPolyline(active, palette)
	}

	return plan
}

// buildNodePolyline draws the straight-line path through the node sequence.
// It is omitted entirely when any sequence name no longer resolves; a
// partial route line would misrepresent the path.
func buildNodePolyline(nodes map[string]valueobjects.Coordinate, active *entities.Path, palette Palette) *Polyline {
	if !active.HasNodeSequence() {
		return nil
	}
	coords := make([]valueobjects.Coordinate, 0, len(active.NodeSequence))
	for _, name := range active.NodeSequence {
		pos, ok := nodes[name]
		if !ok {
			return nil
		}
		coords = append(coords, pos)
	}
	return &Polyline{
		Coordinates: coords,
		Color:       palette.PathColor,
		Weight:      palette.PathWeight,
		Opacity:     palette.PathOpacity,
	}
}

// buildRoadPolyline draws the road-following geometry when present
func buildRoadPolyline(active *entities.Path, palette Palette) *Polyline {
	if len(active.Coordinates) < 2 {
		return nil
	}
	coords := make([]valueobjects.Coordinate, len(active.Coordinates))
	copy(coords, active.Coordinates)
	return &Polyline{
		Coordinates: coords,
		Color:       palette.PathColor,
		Weight:      palette.PathWeight,
		Opacity:     palette.PathOpacity,
		Dashed:      true,
	}
}
