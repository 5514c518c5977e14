package valueobjects_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

func TestNewCoordinate_RejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 90.01, 0},
		{"latitude too low", -90.01, 0},
		{"longitude too high", 0, 180.01},
		{"longitude too low", 0, -180.01},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := valueobjects.NewCoordinate(tc.lat, tc.lng)

			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestNewCoordinate_AcceptsBoundaryValues(t *testing.T) {
	c, err := valueobjects.NewCoordinate(90, -180)

	require.NoError(t, err)
	assert.Equal(t, 90.0, c.Lat())
	assert.Equal(t, -180.0, c.Lng())
}

func TestDistanceKm_OneDegreeOfLatitude(t *testing.T) {
	// One degree of latitude spans ~111.19 km on the reference sphere
	a, err := valueobjects.NewCoordinate(0, 0)
	require.NoError(t, err)
	b, err := valueobjects.NewCoordinate(1, 0)
	require.NoError(t, err)

	assert.InDelta(t, 111.19, a.DistanceKm(b), 0.1)
	assert.InDelta(t, a.DistanceKm(b), b.DistanceKm(a), 1e-9)
}

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	a, err := valueobjects.NewCoordinate(46.1866, 21.3123)
	require.NoError(t, err)

	assert.Zero(t, a.DistanceKm(a))
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	// Oradea to Zerind, straight line
	oradea, err := valueobjects.NewCoordinate(47.0722, 21.9211)
	require.NoError(t, err)
	zerind, err := valueobjects.NewCoordinate(46.6225, 21.5175)
	require.NoError(t, err)

	assert.InDelta(t, 58.5, oradea.DistanceKm(zerind), 1.5)
}

func TestCoordinate_EqualsTolerance(t *testing.T) {
	a, err := valueobjects.NewCoordinate(46.1866, 21.3123)
	require.NoError(t, err)
	b, err := valueobjects.NewCoordinate(46.1866+1e-12, 21.3123)
	require.NoError(t, err)
	c, err := valueobjects.NewCoordinate(46.1867, 21.3123)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestCoordinate_JSONIsLatLngPair(t *testing.T) {
	// Arrange
	c, err := valueobjects.NewCoordinate(46.1866, 21.3123)
	require.NoError(t, err)

	// Act
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded valueobjects.Coordinate
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Assert
	assert.JSONEq(t, `[46.1866,21.3123]`, string(data))
	assert.True(t, c.Equals(decoded))
}
