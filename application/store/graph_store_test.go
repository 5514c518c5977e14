package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/fixtures"
	"pathfinder-backend/tests/mocks"
)

func newTestStore(t *testing.T) (*store.GraphStore, *mocks.MockGraphService) {
	t.Helper()

	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	svc := new(mocks.MockGraphService)
	return store.NewGraphStore(svc, bus, logger), svc
}

func TestGraphStore_AddNodeConfirmedBeforeCache(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	pos := fixtures.Coord(46.1866, 21.3123)
	node, err := entities.NewNode("Arad", pos)
	require.NoError(t, err)

	svc.On("CreateNode", mock.Anything, "Arad", pos).Return(node, nil).Once()
	svc.On("ListEdges", mock.Anything).Return([]entities.Edge{}, nil).Once()

	// Act
	created, err := st.AddNode(context.Background(), "Arad", pos)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Arad", created.Name())
	assert.True(t, st.HasNode("Arad"))
	svc.AssertExpectations(t)
}

func TestGraphStore_AddNodeRejectionLeavesCacheUntouched(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	pos := fixtures.Coord(46.1866, 21.3123)
	svc.On("CreateNode", mock.Anything, "Arad", pos).
		Return(nil, pkgerrors.NewValidation("node already exists")).Once()

	// Act
	_, err := st.AddNode(context.Background(), "Arad", pos)

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, st.HasNode("Arad"))
	svc.AssertNotCalled(t, "ListEdges", mock.Anything)
}

func TestGraphStore_AddNodeRefreshesEdgesAfterConfirmation(t *testing.T) {
	// The server may construct edges implicitly when a node appears, so the
	// edge cache is resynced after every confirmed node mutation.
	st, svc := newTestStore(t)
	pos := fixtures.Coord(46.1866, 21.3123)
	node, err := entities.NewNode("Arad", pos)
	require.NoError(t, err)

	serverEdges := []entities.Edge{fixtures.Edge("e9", "Arad", "Sibiu", 140)}
	svc.On("CreateNode", mock.Anything, "Arad", pos).Return(node, nil).Once()
	svc.On("ListEdges", mock.Anything).Return(serverEdges, nil).Once()

	_, err = st.AddNode(context.Background(), "Arad", pos)
	require.NoError(t, err)

	_, edges := st.Snapshot()
	require.Len(t, edges, 1)
	assert.Equal(t, "e9", edges[0].ID())
}

func TestGraphStore_DeleteEdgeRefreshesFromServer(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	svc.On("DeleteEdge", mock.Anything, "e1").Return(nil).Once()
	svc.On("ListEdges", mock.Anything).Return([]entities.Edge{}, nil).Once()

	// Act
	err := st.DeleteEdge(context.Background(), "e1")

	// Assert
	require.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestGraphStore_AddEdgeValidatesEndpoints(t *testing.T) {
	st, svc := newTestStore(t)

	_, err := st.AddEdge(context.Background(), "Arad", "Arad", nil)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = st.AddEdge(context.Background(), "  ", "Sibiu", nil)
	assert.True(t, pkgerrors.IsValidation(err))

	svc.AssertNotCalled(t, "CreateEdge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGraphStore_LoadReplacesCache(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	svc.On("ListNodes", mock.Anything).Return(fixtures.RomaniaNodes(), nil).Once()
	svc.On("ListEdges", mock.Anything).Return(fixtures.RomaniaEdges(), nil).Once()

	// Act
	err := st.Load(context.Background())

	// Assert
	require.NoError(t, err)
	nodes, edges := st.Snapshot()
	assert.Len(t, nodes, 4)
	assert.Len(t, edges, 4)
	assert.ElementsMatch(t, []string{"Oradea", "Zerind", "Arad", "Sibiu"}, st.NodeNames())
}

func TestGraphStore_SnapshotReturnsCopies(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	svc.On("ListNodes", mock.Anything).Return(fixtures.RomaniaNodes(), nil).Once()
	svc.On("ListEdges", mock.Anything).Return(fixtures.RomaniaEdges(), nil).Once()
	require.NoError(t, st.Load(context.Background()))

	// Act
	nodes, _ := st.Snapshot()
	delete(nodes, "Arad")

	// Assert
	assert.True(t, st.HasNode("Arad"))
}

func TestGraphStore_ImportDatasetRejectsUnknownEndpoint(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	ds := ports.Dataset{
		Nodes: map[string][2]float64{"Arad": {46.1866, 21.3123}},
		Edges: []ports.DatasetEdge{{Source: "Arad", Target: "Sibiu", Weight: 140}},
	}

	// Act
	err := st.ImportDataset(context.Background(), ds)

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Sibiu")
	svc.AssertNotCalled(t, "ImportDataset", mock.Anything, mock.Anything)
}

func TestGraphStore_ImportDatasetResyncsFromServer(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	ds := ports.Dataset{
		Nodes: map[string][2]float64{
			"Arad":  {46.1866, 21.3123},
			"Sibiu": {45.7983, 24.1256},
		},
		Edges: []ports.DatasetEdge{{Source: "Arad", Target: "Sibiu", Weight: 140}},
	}
	imported := map[string]valueobjects.Coordinate{
		"Arad":  fixtures.Coord(46.1866, 21.3123),
		"Sibiu": fixtures.Coord(45.7983, 24.1256),
	}
	svc.On("ImportDataset", mock.Anything, ds).Return(nil).Once()
	svc.On("ListNodes", mock.Anything).Return(imported, nil).Once()
	svc.On("ListEdges", mock.Anything).
		Return([]entities.Edge{fixtures.Edge("e1", "Arad", "Sibiu", 140)}, nil).Once()

	// Act
	err := st.ImportDataset(context.Background(), ds)

	// Assert
	require.NoError(t, err)
	assert.True(t, st.HasNode("Sibiu"))
	svc.AssertExpectations(t)
}

func TestGraphStore_DropLocalEdgesClearsWithoutNetwork(t *testing.T) {
	// Arrange
	st, svc := newTestStore(t)
	svc.On("ListNodes", mock.Anything).Return(fixtures.RomaniaNodes(), nil).Once()
	svc.On("ListEdges", mock.Anything).Return(fixtures.RomaniaEdges(), nil).Once()
	require.NoError(t, st.Load(context.Background()))

	// Act
	st.DropLocalEdges(context.Background())

	// Assert
	_, edges := st.Snapshot()
	assert.Empty(t, edges)
	svc.AssertNumberOfCalls(t, "ListEdges", 1)
}
