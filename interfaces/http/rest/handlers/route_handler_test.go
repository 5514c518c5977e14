package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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
	"pathfinder-backend/interfaces/http/rest/handlers"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/fixtures"
	"pathfinder-backend/tests/mocks"
)

type routeHandlerDeps struct {
	handler *handlers.RouteHandler
	svc     *mocks.MockGraphService
	roads   *mocks.MockRoadRouter
	active  *route.ActiveRoute
	store   *store.GraphStore
}

func newRouteHandlerDeps(t *testing.T) routeHandlerDeps {
	t.Helper()

	logger := zap.NewNop()
	bus := appevents.NewBus(logger)
	svc := new(mocks.MockGraphService)
	roads := new(mocks.MockRoadRouter)
	st := store.NewGraphStore(svc, bus, logger)
	active := route.NewActiveRoute(bus, logger)
	planner := route.NewPlanner(svc, roads, st, active, logger)

	return routeHandlerDeps{
		handler: handlers.NewRouteHandler(planner, active, logger),
		svc:     svc,
		roads:   roads,
		active:  active,
		store:   st,
	}
}

func TestFindRoute_ReturnsComputedPath(t *testing.T) {
	// Arrange
	deps := newRouteHandlerDeps(t)
	deps.svc.On("ListNodes", mock.Anything).Return(fixtures.RomaniaNodes(), nil).Once()
	deps.svc.On("ListEdges", mock.Anything).Return(fixtures.RomaniaEdges(), nil).Once()
	require.NoError(t, deps.store.Load(context.Background()))

	distance := 71.0
	deps.svc.On("FindPath", mock.Anything, mock.Anything).
		Return(entities.Path{NodeSequence: []string{"Oradea", "Zerind"}, Distance: &distance}, nil).Once()
	deps.roads.On("Route", mock.Anything, mock.Anything).
		Return(ports.RoadRoute{}, pkgerrors.NewTransient("router down", nil)).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/route",
		strings.NewReader(`{"start":"Oradea","end":"Zerind"}`))
	rec := httptest.NewRecorder()

	// Act
	deps.handler.FindRoute(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.RouteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Oradea", "Zerind"}, resp.Nodes)
	require.NotNil(t, resp.DistanceKm)
	assert.Equal(t, 71.0, *resp.DistanceKm)
}

func TestFindRoute_NoRouteIs404WithMessage(t *testing.T) {
	// Arrange
	deps := newRouteHandlerDeps(t)
	deps.svc.On("FindPath", mock.Anything, mock.Anything).
		Return(entities.Path{}, pkgerrors.NewNotFound("no path")).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/route",
		strings.NewReader(`{"start":"Arad","end":"Iasi","avoid":["Sibiu"]}`))
	rec := httptest.NewRecorder()

	// Act
	deps.handler.FindRoute(rec, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No route found between Arad and Iasi")
	assert.Contains(t, rec.Body.String(), "avoiding Sibiu")
}

func TestFindRoute_MalformedBodyIs400(t *testing.T) {
	deps := newRouteHandlerDeps(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	deps.handler.FindRoute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoute_WithoutActiveRouteIs404(t *testing.T) {
	deps := newRouteHandlerDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/route", nil)
	rec := httptest.NewRecorder()

	deps.handler.GetRoute(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearRoute_RemovesActiveRoute(t *testing.T) {
	// Arrange
	deps := newRouteHandlerDeps(t)
	deps.active.Set(context.Background(), fixtures.NewPathBuilder().
		WithNodes("Oradea", "Zerind").
		WithDistance(71).
		Build())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/route", nil)
	rec := httptest.NewRecorder()

	// Act
	deps.handler.ClearRoute(rec, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, deps.active.Current())
}
