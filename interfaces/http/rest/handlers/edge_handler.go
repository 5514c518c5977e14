package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pathfinder-backend/application/store"
	"pathfinder-backend/pkg/api"
)

// EdgeHandler serves the edge endpoints
type EdgeHandler struct {
	store  *store.GraphStore
	logger *zap.Logger
}

// NewEdgeHandler creates an edge handler
func NewEdgeHandler(st *store.GraphStore, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{store: st, logger: logger}
}

// CreateEdgeRequest is the expected body for POST /edges. A nil weight asks
// the server to compute the distance from the endpoint coordinates.
type CreateEdgeRequest struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

// EdgeResponse is the API representation of a single edge
type EdgeResponse struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

// ListEdges handles GET /edges
func (h *EdgeHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	_, edges := h.store.Snapshot()

	out := make([]EdgeResponse, 0, len(edges))
	for _, edge := range edges {
		resp := EdgeResponse{ID: edge.ID(), Source: edge.Source(), Target: edge.Target()}
		if weight, ok := edge.Weight(); ok {
			w := weight
			resp.Weight = &w
		}
		out = append(out, resp)
	}
	api.Success(w, http.StatusOK, out)
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edge, err := h.store.AddEdge(r.Context(), req.Source, req.Target, req.Weight)
	if err != nil {
		api.HandleServiceError(w, err)
		return
	}

	resp := EdgeResponse{ID: edge.ID(), Source: edge.Source(), Target: edge.Target()}
	if weight, ok := edge.Weight(); ok {
		wv := weight
		resp.Weight = &wv
	}
	api.Success(w, http.StatusCreated, resp)
}

// DeleteEdge handles DELETE /edges/{id}
func (h *EdgeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteEdge(r.Context(), id); err != nil {
		api.HandleServiceError(w, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
