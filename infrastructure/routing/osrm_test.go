package routing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"pathfinder-backend/domain/core/valueobjects"
	"pathfinder-backend/infrastructure/routing"
	pkgerrors "pathfinder-backend/pkg/errors"
	"pathfinder-backend/tests/fixtures"
)

func newTestRouter(t *testing.T, handler http.Handler) *routing.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return routing.NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func encodeGeometry(coords ...[]float64) string {
	return string(polyline.EncodeCoords(coords))
}

func routeBody(geometry string, distanceMeters, durationSec float64, streets ...string) string {
	steps := make([]map[string]string, 0, len(streets))
	for _, s := range streets {
		steps = append(steps, map[string]string{"name": s})
	}
	body := map[string]any{
		"code": "Ok",
		"routes": []map[string]any{{
			"geometry": geometry,
			"distance": distanceMeters,
			"duration": durationSec,
			"legs":     []map[string]any{{"steps": steps}},
		}},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestSnapToRoad(t *testing.T) {
	// Arrange
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/nearest/v1/driving/"))
		w.Header().Set("Content-Type", "application/json")
		// OSRM locations are [lon, lat]
		fmt.Fprint(w, `{"code":"Ok","waypoints":[{"location":[21.9211,47.0722]}]}`)
	}))

	// Act
	snapped, err := router.SnapToRoad(context.Background(), fixtures.Coord(47.07, 21.92))

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 47.0722, snapped.Lat(), 1e-9)
	assert.InDelta(t, 21.9211, snapped.Lng(), 1e-9)
}

func TestSnapToRoad_NonOkCodeFails(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoSegment","waypoints":[]}`)
	}))

	_, err := router.SnapToRoad(context.Background(), fixtures.Coord(47.07, 21.92))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsTransient(err))
}

func TestRoute_RequiresTwoCoordinates(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := router.Route(context.Background(), []valueobjects.Coordinate{fixtures.Coord(47, 21)})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRoute_DecodesGeometryAndConvertsUnits(t *testing.T) {
	// Arrange
	geometry := encodeGeometry(
		[]float64{47.0722, 21.9211},
		[]float64{46.9, 21.7},
		[]float64{46.6225, 21.5175},
	)
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, routeBody(geometry, 71250, 3600, "DN19"))
	}))

	coords := []valueobjects.Coordinate{
		fixtures.Coord(47.0722, 21.9211),
		fixtures.Coord(46.6225, 21.5175),
	}

	// Act
	route, err := router.Route(context.Background(), coords)

	// Assert
	require.NoError(t, err)
	require.Len(t, route.Geometry, 3)
	assert.InDelta(t, 46.9, route.Geometry[1].Lat(), 1e-4)
	assert.InDelta(t, 71.25, route.DistanceKm, 1e-6)
	assert.InDelta(t, 3600, route.DurationSec, 1e-6)
	assert.Equal(t, []string{"DN19"}, route.StreetNames)
	assert.Equal(t, coords, route.Waypoints)
}

func TestRoute_SkipsDuplicateJointPoints(t *testing.T) {
	// Arrange: the shared middle coordinate ends leg one and starts leg two
	legs := []string{
		encodeGeometry([]float64{47.0722, 21.9211}, []float64{46.6225, 21.5175}),
		encodeGeometry([]float64{46.6225, 21.5175}, []float64{46.1866, 21.3123}),
	}
	var call int
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, routeBody(legs[call], 50000, 1800))
		call++
	}))

	// Act
	route, err := router.Route(context.Background(), []valueobjects.Coordinate{
		fixtures.Coord(47.0722, 21.9211),
		fixtures.Coord(46.6225, 21.5175),
		fixtures.Coord(46.1866, 21.3123),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, call)
	require.Len(t, route.Geometry, 3)
	assert.InDelta(t, 100, route.DistanceKm, 1e-6)
}

func TestRoute_FiltersUnnamedAndDuplicateStreets(t *testing.T) {
	// Arrange
	geometry := encodeGeometry([]float64{47.0722, 21.9211}, []float64{46.6225, 21.5175})
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, routeBody(geometry, 1000, 60, "DN19", "", "Unnamed Road", "DN19", "DN79"))
	}))

	// Act
	route, err := router.Route(context.Background(), []valueobjects.Coordinate{
		fixtures.Coord(47.0722, 21.9211),
		fixtures.Coord(46.6225, 21.5175),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"DN19", "DN79"}, route.StreetNames)
}

func TestRoute_FailedLegNamesItself(t *testing.T) {
	router := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","routes":[]}`)
	}))

	_, err := router.Route(context.Background(), []valueobjects.Coordinate{
		fixtures.Coord(47.0722, 21.9211),
		fixtures.Coord(46.6225, 21.5175),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "leg 1")
}
