package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/pkg/api"
)

// RouteHandler serves the active route endpoints
type RouteHandler struct {
	planner *route.Planner
	active  *route.ActiveRoute
	logger  *zap.Logger
}

// NewRouteHandler creates a route handler
func NewRouteHandler(planner *route.Planner, active *route.ActiveRoute, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{planner: planner, active: active, logger: logger}
}

// FindRouteRequest is the expected body for POST /route
type FindRouteRequest struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Waypoints []string `json:"waypoints,omitempty"`
	Avoid     []string `json:"avoid,omitempty"`
}

// RouteResponse is the API representation of the active route
type RouteResponse struct {
	Nodes       []string       `json:"nodes"`
	Coordinates [][2]float64   `json:"coordinates,omitempty"`
	DistanceKm  *float64       `json:"distanceKm,omitempty"`
	DurationSec *float64       `json:"durationSec,omitempty"`
	Streets     []string       `json:"streets,omitempty"`
}

func toRouteResponse(path *entities.Path) RouteResponse {
	resp := RouteResponse{
		Nodes:       path.NodeSequence,
		DistanceKm:  path.Distance,
		DurationSec: path.Duration,
		Streets:     path.RouteInfo,
	}
	for _, c := range path.Coordinates {
		resp.Coordinates = append(resp.Coordinates, [2]float64{c.Lat(), c.Lng()})
	}
	return resp
}

// FindRoute handles POST /route
func (h *RouteHandler) FindRoute(w http.ResponseWriter, r *http.Request) {
	var req FindRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query := ports.PathQuery{
		Start:     req.Start,
		End:       req.End,
		Waypoints: req.Waypoints,
		Avoid:     req.Avoid,
	}
	path, err := h.planner.FindRoute(r.Context(), query)
	if err != nil {
		api.HandleServiceError(w, err)
		return
	}

	api.Success(w, http.StatusOK, toRouteResponse(&path))
}

// GetRoute handles GET /route
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	current := h.active.Current()
	if current == nil {
		api.Error(w, http.StatusNotFound, "no active route")
		return
	}
	api.Success(w, http.StatusOK, toRouteResponse(current))
}

// ClearRoute handles DELETE /route
func (h *RouteHandler) ClearRoute(w http.ResponseWriter, r *http.Request) {
	h.active.Clear(r.Context())
	api.Success(w, http.StatusNoContent, nil)
}
