package ports_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder-backend/application/ports"
	pkgerrors "pathfinder-backend/pkg/errors"
)

func TestDatasetEdge_MarshalsAsTriple(t *testing.T) {
	edge := ports.DatasetEdge{Source: "Oradea", Target: "Zerind", Weight: 71}

	data, err := json.Marshal(edge)

	require.NoError(t, err)
	assert.JSONEq(t, `["Oradea","Zerind",71]`, string(data))
}

func TestDataset_RoundTrip(t *testing.T) {
	// Arrange
	original := ports.Dataset{
		Nodes: map[string][2]float64{
			"Oradea": {47.0722, 21.9211},
			"Zerind": {46.6225, 21.5175},
		},
		Edges: []ports.DatasetEdge{
			{Source: "Oradea", Target: "Zerind", Weight: 71},
		},
	}

	// Act
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ports.Dataset
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Assert
	assert.Equal(t, original, decoded)
}

func TestDatasetEdge_RejectsWrongArity(t *testing.T) {
	var edge ports.DatasetEdge

	err := json.Unmarshal([]byte(`["Oradea","Zerind"]`), &edge)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestDatasetEdge_RejectsWrongTypes(t *testing.T) {
	var edge ports.DatasetEdge

	err := json.Unmarshal([]byte(`["Oradea","Zerind","seventy-one"]`), &edge)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
