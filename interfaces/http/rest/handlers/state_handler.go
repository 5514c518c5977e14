package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/interaction"
	"pathfinder-backend/application/overlay"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/store"
	"pathfinder-backend/application/sync"
	"pathfinder-backend/pkg/api"
)

// StateHandler serves the full workspace snapshot a connecting view needs
// to render without waiting for individual events
type StateHandler struct {
	store      *store.GraphStore
	active     *route.ActiveRoute
	presenter  *overlay.Presenter
	density    *sync.Engine
	controller *interaction.Controller
	errs       *appevents.ErrorChannel
	logger     *zap.Logger
}

// NewStateHandler creates a state handler
func NewStateHandler(
	st *store.GraphStore,
	active *route.ActiveRoute,
	presenter *overlay.Presenter,
	density *sync.Engine,
	controller *interaction.Controller,
	errs *appevents.ErrorChannel,
	logger *zap.Logger,
) *StateHandler {
	return &StateHandler{
		store:      st,
		active:     active,
		presenter:  presenter,
		density:    density,
		controller: controller,
		errs:       errs,
		logger:     logger,
	}
}

// StateResponse is the complete workspace snapshot
type StateResponse struct {
	Nodes       []NodeResponse         `json:"nodes"`
	Edges       []EdgeResponse         `json:"edges"`
	Route       *RouteResponse         `json:"route,omitempty"`
	RenderPlan  overlay.RenderPlan     `json:"renderPlan"`
	Density     DensityResponse        `json:"density"`
	Interaction string                 `json:"interaction"`
	Error       *appevents.VisibleError `json:"error,omitempty"`
}

// GetState handles GET /state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	nodes, edges := h.store.Snapshot()

	resp := StateResponse{
		Nodes:      make([]NodeResponse, 0, len(nodes)),
		Edges:      make([]EdgeResponse, 0, len(edges)),
		RenderPlan: h.presenter.Plan(),
		Density: DensityResponse{
			Desired:   h.density.Desired(),
			Committed: h.density.Committed(),
			Syncing:   h.density.IsSyncing(),
		},
		Interaction: interactionName(h.controller.State()),
		Error:       h.errs.Current(),
	}

	for name, pos := range nodes {
		resp.Nodes = append(resp.Nodes, NodeResponse{Name: name, Lat: pos.Lat(), Lng: pos.Lng()})
	}
	for _, edge := range edges {
		er := EdgeResponse{ID: edge.ID(), Source: edge.Source(), Target: edge.Target()}
		if weight, ok := edge.Weight(); ok {
			wv := weight
			er.Weight = &wv
		}
		resp.Edges = append(resp.Edges, er)
	}

	if current := h.active.Current(); current != nil {
		rr := toRouteResponse(current)
		resp.Route = &rr
	}

	api.Success(w, http.StatusOK, resp)
}

func interactionName(state interaction.State) string {
	switch state.(type) {
	case interaction.AwaitingNodeName:
		return "awaiting_node_name"
	case interaction.EdgeSelected:
		return "edge_selected"
	default:
		return "idle"
	}
}
