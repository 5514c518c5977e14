// Package routing is the HTTP client for the OSRM-compatible road routing
// service.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second

	// The router names segments without a mapped street this way; the
	// value is noise in a route summary.
	unnamedRoad = "unnamed road"
)

// Client talks to an OSRM-compatible routing server
type Client struct {
	baseURL string
	profile string
	http    *http.Client
	logger  *zap.Logger
}

var _ ports.RoadRouter = (*Client)(nil)

// NewClient creates a road router client for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type nearestResponse struct {
	Code      string `json:"code"`
	Waypoints []struct {
		Location [2]float64 `json:"location"` // lon, lat
	} `json:"waypoints"`
}

// SnapToRoad returns the nearest point on the road network. Callers treat
// an error as "use the raw coordinate"; this method only reports it.
func (c *Client) SnapToRoad(ctx context.Context, coord valueobjects.Coordinate) (valueobjects.Coordinate, error) {
	endpoint := fmt.Sprintf("%s/nearest/v1/%s/%f,%f", c.baseURL, c.profile, coord.Lng(), coord.Lat())

	var resp nearestResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return valueobjects.Coordinate{}, err
	}
	if resp.Code != "Ok" || len(resp.Waypoints) == 0 {
		return valueobjects.Coordinate{}, pkgerrors.NewTransient(fmt.Sprintf("road snap failed with code %q", resp.Code), nil)
	}

	loc := resp.Waypoints[0].Location
	snapped, err := valueobjects.NewCoordinate(loc[1], loc[0])
	if err != nil {
		return valueobjects.Coordinate{}, pkgerrors.Wrap(err, "road router returned an invalid coordinate")
	}
	return snapped, nil
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Legs     []struct {
			Steps []struct {
				Name string `json:"name"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route returns road-following geometry through the given coordinates. The
// route is requested pair by pair so a single unroutable leg identifies
// itself instead of failing the whole sequence opaquely.
func (c *Client) Route(ctx context.Context, coords []valueobjects.Coordinate) (ports.RoadRoute, error) {
	if len(coords) < 2 {
		return ports.RoadRoute{}, pkgerrors.NewValidation("road routing requires at least two coordinates")
	}

	out := ports.RoadRoute{Waypoints: coords}
	seenStreets := make(map[string]struct{})

	for i := 0; i < len(coords)-1; i++ {
		leg, err := c.routeLeg(ctx, coords[i], coords[i+1])
		if err != nil {
			return ports.RoadRoute{}, pkgerrors.Wrap(err, fmt.Sprintf("failed to route leg %d", i+1))
		}

		for _, point := range leg.geometry {
			// Consecutive legs share their joint point; keep it once.
			if n := len(out.Geometry); n > 0 && out.Geometry[n-1].Equals(point) {
				continue
			}
			out.Geometry = append(out.Geometry, point)
		}
		out.DistanceKm += leg.distanceMeters / 1000.0
		out.DurationSec += leg.durationSec

		for _, name := range leg.streets {
			if _, seen := seenStreets[name]; seen {
				continue
			}
			seenStreets[name] = struct{}{}
			out.StreetNames = append(out.StreetNames, name)
		}
	}

	return out, nil
}

type legResult struct {
	geometry       []valueobjects.Coordinate
	distanceMeters float64
	durationSec    float64
	streets        []string
}

func (c *Client) routeLeg(ctx context.Context, from, to valueobjects.Coordinate) (legResult, error) {
	endpoint := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=polyline&steps=true",
		c.baseURL, c.profile, from.Lng(), from.Lat(), to.Lng(), to.Lat())

	var resp routeResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return legResult{}, err
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return legResult{}, pkgerrors.NewTransient(fmt.Sprintf("road routing failed with code %q", resp.Code), nil)
	}

	route := resp.Routes[0]
	pairs, _, err := polyline.DecodeCoords([]byte(route.Geometry))
	if err != nil {
		return legResult{}, pkgerrors.NewTransient("failed to decode route geometry", err)
	}

	leg := legResult{
		distanceMeters: route.Distance,
		durationSec:    route.Duration,
	}
	for _, pair := range pairs {
		point, err := valueobjects.NewCoordinate(pair[0], pair[1])
		if err != nil {
			return legResult{}, pkgerrors.Wrap(err, "road router returned an invalid coordinate")
		}
		leg.geometry = append(leg.geometry, point)
	}

	for _, l := range route.Legs {
		for _, step := range l.Steps {
			name := strings.TrimSpace(step.Name)
			if name == "" || strings.EqualFold(name, unnamedRoad) {
				continue
			}
			leg.streets = append(leg.streets, name)
		}
	}

	return leg, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.NewInternal("failed to build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewTransient("road router request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return pkgerrors.NewTransient(fmt.Sprintf("road router returned %s", resp.Status), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewTransient("failed to decode road router response", err)
	}
	return nil
}
