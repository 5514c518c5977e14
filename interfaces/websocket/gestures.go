package websocket

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"pathfinder-backend/application/chat"
	appevents "pathfinder-backend/application/events"
	"pathfinder-backend/application/interaction"
	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/route"
	"pathfinder-backend/application/sync"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

// Inbound gesture types
const (
	GestureMapClick           = "map_click"
	GestureCommitNodeName     = "commit_node_name"
	GestureCancelNodeName     = "cancel_node_name"
	GestureEdgeClick          = "edge_click"
	GestureDeleteSelectedEdge = "delete_selected_edge"
	GestureClickElsewhere     = "click_elsewhere"
	GestureDeleteMarker       = "delete_marker"
	GestureRemoveAllNodes     = "remove_all_nodes"
	GestureResetView          = "reset_view"
	GestureFindRoute          = "find_route"
	GestureClearRoute         = "clear_route"
	GestureSetDensity         = "set_density"
	GestureChatMessage        = "chat_message"
	GestureAskRecommendations = "ask_recommendations"
	GestureDismissError       = "dismiss_error"
)

// GestureDispatcher routes inbound client gestures to the engine. Gestures
// whose failures concern only the sender (a rejected node name, a malformed
// payload) reply directly to that client; everything else surfaces through
// the shared error channel like any other engine failure.
type GestureDispatcher struct {
	controller *interaction.Controller
	planner    *route.Planner
	active     *route.ActiveRoute
	density    *sync.Engine
	session    *chat.Session
	errs       *appevents.ErrorChannel
	logger     *zap.Logger
}

// NewGestureDispatcher creates a dispatcher over the engine's front doors
func NewGestureDispatcher(
	controller *interaction.Controller,
	planner *route.Planner,
	active *route.ActiveRoute,
	density *sync.Engine,
	session *chat.Session,
	errs *appevents.ErrorChannel,
	logger *zap.Logger,
) *GestureDispatcher {
	return &GestureDispatcher{
		controller: controller,
		planner:    planner,
		active:     active,
		density:    density,
		session:    session,
		errs:       errs,
		logger:     logger,
	}
}

type gestureEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clickPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type namePayload struct {
	Name string `json:"name"`
}

type edgeClickPayload struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

type confirmPayload struct {
	Confirmed bool `json:"confirmed"`
}

type routeQueryPayload struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Waypoints []string `json:"waypoints,omitempty"`
	Avoid     []string `json:"avoid,omitempty"`
}

type densityPayload struct {
	K int `json:"k"`
}

type chatPayload struct {
	Text string `json:"text"`
}

// Dispatch decodes and runs one gesture message
func (d *GestureDispatcher) Dispatch(client *Client, raw []byte) {
	var envelope gestureEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		d.reject(client, "malformed gesture message")
		return
	}

	ctx := context.Background()

	switch envelope.Type {
	case GestureMapClick:
		var p clickPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		coord, err := valueobjects.NewCoordinate(p.Lat, p.Lng)
		if err != nil {
			d.reject(client, err.Error())
			return
		}
		d.controller.MapClick(ctx, coord)

	case GestureCommitNodeName:
		var p namePayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		if err := d.controller.CommitNodeName(ctx, p.Name); err != nil {
			d.reject(client, pkgerrors.UserMessage(err))
		}

	case GestureCancelNodeName:
		d.controller.CancelNodeName(ctx)

	case GestureEdgeClick:
		var p edgeClickPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		edge, err := entities.NewEdge(p.ID, p.Source, p.Target, p.Weight)
		if err != nil {
			d.reject(client, err.Error())
			return
		}
		d.controller.EdgeClick(ctx, *edge)

	case GestureDeleteSelectedEdge:
		if err := d.controller.DeleteSelectedEdge(ctx); err != nil {
			d.report(ctx, "edge-delete", err)
		}

	case GestureClickElsewhere:
		d.controller.ClickElsewhere(ctx)

	case GestureDeleteMarker:
		var p namePayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		if err := d.controller.DeleteMarker(ctx, p.Name); err != nil {
			d.report(ctx, "node-delete", err)
		}

	case GestureRemoveAllNodes:
		var p confirmPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		if err := d.controller.RemoveAllNodes(ctx, p.Confirmed); err != nil {
			d.reject(client, pkgerrors.UserMessage(err))
		}

	case GestureResetView:
		d.controller.Reset(ctx)

	case GestureFindRoute:
		var p routeQueryPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		query := ports.PathQuery{Start: p.Start, End: p.End, Waypoints: p.Waypoints, Avoid: p.Avoid}
		if _, err := d.planner.FindRoute(ctx, query); err != nil {
			d.report(ctx, "route", err)
		}

	case GestureClearRoute:
		d.active.Clear(ctx)

	case GestureSetDensity:
		var p densityPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		if err := d.density.SetDesired(p.K); err != nil {
			d.reject(client, pkgerrors.UserMessage(err))
		}

	case GestureChatMessage:
		var p chatPayload
		if !d.decode(client, envelope.Data, &p) {
			return
		}
		d.session.SendMessage(ctx, p.Text)

	case GestureAskRecommendations:
		d.session.AskForRecommendations(ctx)

	case GestureDismissError:
		d.errs.Dismiss(ctx)

	default:
		d.logger.Debug("Unknown gesture type", zap.String("type", envelope.Type))
		d.reject(client, "unknown gesture type")
	}
}

func (d *GestureDispatcher) decode(client *Client, data json.RawMessage, out any) bool {
	if err := json.Unmarshal(data, out); err != nil {
		d.reject(client, "malformed gesture payload")
		return false
	}
	return true
}

func (d *GestureDispatcher) reject(client *Client, message string) {
	client.Send(MessageGestureRejected, map[string]string{"message": message})
}

func (d *GestureDispatcher) report(ctx context.Context, source string, err error) {
	d.errs.Report(ctx, source, err)
}
