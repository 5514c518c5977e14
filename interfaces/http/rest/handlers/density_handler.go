package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pathfinder-backend/application/sync"
	"pathfinder-backend/pkg/api"
)

// DensityHandler serves the route density endpoints
type DensityHandler struct {
	engine *sync.Engine
	logger *zap.Logger
}

// NewDensityHandler creates a density handler
func NewDensityHandler(engine *sync.Engine, logger *zap.Logger) *DensityHandler {
	return &DensityHandler{engine: engine, logger: logger}
}

// SetDensityRequest is the expected body for PUT /density
type SetDensityRequest struct {
	K int `json:"k"`
}

// DensityResponse is the current density state
type DensityResponse struct {
	Desired   int  `json:"desired"`
	Committed int  `json:"committed"`
	Syncing   bool `json:"syncing"`
}

// GetDensity handles GET /density
func (h *DensityHandler) GetDensity(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, DensityResponse{
		Desired:   h.engine.Desired(),
		Committed: h.engine.Committed(),
		Syncing:   h.engine.IsSyncing(),
	})
}

// SetDensity handles PUT /density. The value is accepted immediately and
// committed to the graph service after the quiescence window; the response
// reflects the desired value, not a confirmation.
func (h *DensityHandler) SetDensity(w http.ResponseWriter, r *http.Request) {
	var req SetDensityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.SetDesired(req.K); err != nil {
		api.HandleServiceError(w, err)
		return
	}

	api.Success(w, http.StatusAccepted, DensityResponse{
		Desired:   h.engine.Desired(),
		Committed: h.engine.Committed(),
		Syncing:   h.engine.IsSyncing(),
	})
}
