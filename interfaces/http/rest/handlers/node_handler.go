// Package handlers implements the REST endpoints for the map engine.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pathfinder-backend/application/interaction"
	"pathfinder-backend/application/store"
	"pathfinder-backend/domain/core/valueobjects"
	"pathfinder-backend/pkg/api"
)

// NodeHandler serves the node endpoints
type NodeHandler struct {
	store      *store.GraphStore
	controller *interaction.Controller
	logger     *zap.Logger
}

// NewNodeHandler creates a node handler
func NewNodeHandler(st *store.GraphStore, controller *interaction.Controller, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{store: st, controller: controller, logger: logger}
}

// CreateNodeRequest is the expected body for POST /nodes
type CreateNodeRequest struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// NodeResponse is the API representation of a single node
type NodeResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// BulkDeleteRequest is the expected body for POST /nodes/bulk-delete
type BulkDeleteRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ListNodes handles GET /nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, _ := h.store.Snapshot()

	out := make([]NodeResponse, 0, len(nodes))
	for name, pos := range nodes {
		out = append(out, NodeResponse{Name: name, Lat: pos.Lat(), Lng: pos.Lng()})
	}
	api.Success(w, http.StatusOK, out)
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pos, err := valueobjects.NewCoordinate(req.Lat, req.Lng)
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	node, err := h.store.AddNode(r.Context(), req.Name, pos)
	if err != nil {
		api.HandleServiceError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, NodeResponse{
		Name: node.Name(),
		Lat:  node.Position().Lat(),
		Lng:  node.Position().Lng(),
	})
}

// DeleteNode handles DELETE /nodes/{name}. It goes through the gesture
// controller so an active path crossing the node is cleared the same way a
// map gesture would clear it.
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.controller.DeleteMarker(r.Context(), name); err != nil {
		api.HandleServiceError(w, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// BulkDeleteNodes handles POST /nodes/bulk-delete
func (h *NodeHandler) BulkDeleteNodes(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.controller.RemoveAllNodes(r.Context(), req.Confirmed); err != nil {
		api.HandleServiceError(w, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
