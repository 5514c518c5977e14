package route_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	"pathfinder-backend/domain/events"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/fixtures"
	"pathfinder-backend/tests/mocks"
)

type plannerDeps struct {
	planner *route.Planner
	svc     *mocks.MockGraphService
	roads   *mocks.MockRoadRouter
	active  *route.ActiveRoute
	store   *store.GraphStore
}

func newPlannerDeps(t *testing.T) plannerDeps {
	t.Helper()

	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	svc := new(mocks.MockGraphService)
	roads := new(mocks.MockRoadRouter)
	st := store.NewGraphStore(svc, bus, logger)
	active := route.NewActiveRoute(bus, logger)

	return plannerDeps{
		planner: route.NewPlanner(svc, roads, st, active, logger),
		svc:     svc,
		roads:   roads,
		active:  active,
		store:   st,
	}
}

func (d plannerDeps) loadRomania(t *testing.T) {
	t.Helper()
	d.svc.On("ListNodes", mock.Anything).Return(fixtures.RomaniaNodes(), nil).Once()
	d.svc.On("ListEdges", mock.Anything).Return(fixtures.RomaniaEdges(), nil).Once()
	require.NoError(t, d.store.Load(context.Background()))
}

func floatPtr(v float64) *float64 { return &v }

func TestPlanner_FindRouteAttachesRoadGeometry(t *testing.T) {
	// Arrange
	deps := newPlannerDeps(t)
	deps.loadRomania(t)

	graphPath := entities.Path{
		NodeSequence: []string{"Oradea", "Zerind"},
		Distance:     floatPtr(71),
	}
	deps.svc.On("FindPath", mock.Anything, mock.Anything).Return(graphPath, nil).Once()
	deps.roads.On("Route", mock.Anything, mock.Anything).Return(ports.RoadRoute{
		Geometry: []valueobjects.Coordinate{
			fixtures.Coord(47.0722, 21.9211),
			fixtures.Coord(46.9, 21.7),
			fixtures.Coord(46.6225, 21.5175),
		},
		DistanceKm:  74.2,
		DurationSec: 3600,
		StreetNames: []string{"DN19"},
	}, nil).Once()

	// Act
	path, err := deps.planner.FindRoute(context.Background(), ports.PathQuery{Start: "Oradea", End: "Zerind"})

	// Assert: graph distance is authoritative, the road view adds geometry,
	// duration and street names alongside it
	require.NoError(t, err)
	require.NotNil(t, path.Distance)
	assert.Equal(t, 71.0, *path.Distance)
	assert.Len(t, path.Coordinates, 3)
	require.NotNil(t, path.Duration)
	assert.Equal(t, 3600.0, *path.Duration)
	assert.Equal(t, []string{"DN19"}, path.RouteInfo)

	require.NotNil(t, deps.active.Current())
	assert.Equal(t, []string{"Oradea", "Zerind"}, deps.active.Current().NodeSequence)
}

func TestPlanner_RoadFailureDegradesToNodeOnlyPath(t *testing.T) {
	// Arrange
	deps := newPlannerDeps(t)
	deps.loadRomania(t)

	graphPath := entities.Path{
		NodeSequence: []string{"Oradea", "Zerind"},
		Distance:     floatPtr(71),
	}
	deps.svc.On("FindPath", mock.Anything, mock.Anything).Return(graphPath, nil).Once()
	deps.roads.On("Route", mock.Anything, mock.Anything).
		Return(ports.RoadRoute{}, pkgerrors.NewTransient("router down", nil)).Once()

	// Act
	path, err := deps.planner.FindRoute(context.Background(), ports.PathQuery{Start: "Oradea", End: "Zerind"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, path.Coordinates)
	assert.Nil(t, path.Duration)
	require.NotNil(t, deps.active.Current())
}

func TestPlanner_FailedQueryClearsActivePath(t *testing.T) {
	// Arrange: a previous route is showing
	deps := newPlannerDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())
	deps.svc.On("FindPath", mock.Anything, mock.Anything).
		Return(entities.Path{}, pkgerrors.NewNotFound("no path between Arad and Iasi")).Once()

	// Act
	_, err := deps.planner.FindRoute(context.Background(), ports.PathQuery{Start: "Arad", End: "Iasi"})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Nil(t, deps.active.Current())
}

func TestPlanner_NoRouteMessageNamesEndpointsAndAvoided(t *testing.T) {
	// Arrange
	deps := newPlannerDeps(t)
	deps.svc.On("FindPath", mock.Anything, mock.Anything).
		Return(entities.Path{}, pkgerrors.NewNotFound("no path")).Once()

	// Act
	_, err := deps.planner.FindRoute(context.Background(), ports.PathQuery{
		Start: "Arad",
		End:   "Iasi",
		Avoid: []string{"Sibiu"},
	})

	// Assert
	require.Error(t, err)
	assert.Equal(t, "No route found between Arad and Iasi, avoiding Sibiu", pkgerrors.UserMessage(err))
}

func TestPlanner_MissingNodeSkipsRoadRouting(t *testing.T) {
	// Arrange: the path references a node the store no longer has
	deps := newPlannerDeps(t)
	deps.loadRomania(t)

	graphPath := entities.Path{
		NodeSequence: []string{"Oradea", "Timisoara"},
		Distance:     floatPtr(100),
	}
	deps.svc.On("FindPath", mock.Anything, mock.Anything).Return(graphPath, nil).Once()

	// Act
	path, err := deps.planner.FindRoute(context.Background(), ports.PathQuery{Start: "Oradea", End: "Timisoara"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, path.Coordinates)
	deps.roads.AssertNotCalled(t, "Route", mock.Anything, mock.Anything)
}

func TestActiveRoute_CurrentReturnsIndependentCopy(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	active := route.NewActiveRoute(bus, logger)
	active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())

	// Act
	first := active.Current()
	first.NodeSequence[0] = "mutated"

	// Assert
	second := active.Current()
	assert.Equal(t, "Oradea", second.NodeSequence[0])
}

func TestActiveRoute_ClearWhenEmptyPublishesNothing(t *testing.T) {
	// Arrange
	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	var published int
	require.NoError(t, bus.Register([]string{appevents.WildcardEventType},
		appevents.NewHandlerFunc("counter", 0, func(ctx context.Context, ev events.DomainEvent) error {
			published++
			return nil
		})))
	active := route.NewActiveRoute(bus, logger)

	// Act
	active.Clear(context.Background())

	// Assert
	assert.Zero(t, published)
}
