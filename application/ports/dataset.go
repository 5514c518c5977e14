package ports

import (
	"encoding/json"

	pkgerrors "pathfinder-backend/pkg/errors"
)

// Dataset is the import/export wire format for a full node+edge set:
// {"nodes": {name: [lat, lng]}, "edges": [[source, target, weight]]}.
// Export followed by import of the same dataset reproduces an identical
// node/edge set.
type Dataset struct {
	Nodes map[string][2]float64 `json:"nodes"`
	Edges []DatasetEdge         `json:"edges"`
}

// DatasetEdge is one edge triple in the dataset format
type DatasetEdge struct {
	Source string
	Target string
	Weight float64
}

// MarshalJSON encodes the edge as a [source, target, weight] triple
func (e DatasetEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{e.Source, e.Target, e.Weight})
}

// UnmarshalJSON decodes a [source, target, weight] triple
func (e *DatasetEdge) UnmarshalJSON(data []byte) error {
	var triple []json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return pkgerrors.NewValidation("dataset edge must be a [source, target, weight] triple")
	}
	if err := json.Unmarshal(triple[0], &e.Source); err != nil {
		return pkgerrors.NewValidation("dataset edge source must be a string")
	}
	if err := json.Unmarshal(triple[1], &e.Target); err != nil {
		return pkgerrors.NewValidation("dataset edge target must be a string")
	}
	if err := json.Unmarshal(triple[2], &e.Weight); err != nil {
		return pkgerrors.NewValidation("dataset edge weight must be a number")
	}
	return nil
}
