package valueobjects

import (
	"encoding/json"
	"math"

	pkgerrors "pathfinder-backend/pkg/errors"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371

// Coordinate is a value object representing a geographic position
type Coordinate struct {
	lat float64
	lng float64
}

// NewCoordinate creates a coordinate with validation
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if !isFinite(lat) || !isFinite(lng) {
		return Coordinate{}, pkgerrors.NewValidation("coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return Coordinate{}, pkgerrors.NewValidation("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, pkgerrors.NewValidation("longitude must be between -180 and 180")
	}
	return Coordinate{lat: lat, lng: lng}, nil
}

// Lat returns the latitude in degrees
func (c Coordinate) Lat() float64 {
	return c.lat
}

// Lng returns the longitude in degrees
func (c Coordinate) Lng() float64 {
	return c.lng
}

// DistanceKm calculates the great-circle distance to another coordinate
// using the Haversine formula
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := radians(c.lat)
	lat2 := radians(other.lat)
	dLat := radians(other.lat - c.lat)
	dLng := radians(other.lng - c.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	ch := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * ch
}

// Equals checks if two coordinates are equal
func (c Coordinate) Equals(other Coordinate) bool {
	const epsilon = 1e-9
	return math.Abs(c.lat-other.lat) < epsilon &&
		math.Abs(c.lng-other.lng) < epsilon
}

// MarshalJSON encodes the coordinate as a [lat, lng] pair, the wire and
// dataset format used throughout the system
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.lat, c.lng})
}

// UnmarshalJSON decodes a [lat, lng] pair
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	parsed, err := NewCoordinate(pair[0], pair[1])
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// isFinite checks if a value is a valid finite number
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
