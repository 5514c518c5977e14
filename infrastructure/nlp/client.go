// Package nlp is the HTTP client for the natural-language route
// intelligence service.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/entities"
	pkgerrors "pathfinder-backend/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the route intelligence service. The service is
// stateless: every query carries the full current route as context.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ ports.RouteIntelligence = (*Client)(nil)

// NewClient creates a route intelligence client for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type queryRequest struct {
	Query string       `json:"query"`
	Route routeContext `json:"route"`
}

type routeContext struct {
	Nodes      []string `json:"nodes"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Streets    []string `json:"streets,omitempty"`
}

type queryResponse struct {
	Type            string   `json:"type"`
	Text            string   `json:"text"`
	Path            []string `json:"path,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Query sends a conversational turn. The reply is tagged: an answer leaves
// the route alone, a route update carries a replacement path. Untagged
// replies that carry a path and a distance are treated as route updates;
// older service builds omit the tag.
func (c *Client) Query(ctx context.Context, query string, route *entities.Path) (ports.IntelReply, error) {
	req := queryRequest{Query: query}
	if route != nil {
		req.Route = routeContext{
			Nodes:      route.NodeSequence,
			DistanceKm: route.Distance,
			Streets:    route.RouteInfo,
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return ports.IntelReply{}, pkgerrors.NewInternal("failed to encode query", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return ports.IntelReply{}, pkgerrors.NewInternal("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ports.IntelReply{}, pkgerrors.NewTransient("route intelligence request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return ports.IntelReply{}, pkgerrors.NewTransient(fmt.Sprintf("route intelligence returned %s", resp.Status), nil)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.IntelReply{}, pkgerrors.NewTransient("failed to decode route intelligence response", err)
	}

	return c.toReply(body), nil
}

func (c *Client) toReply(body queryResponse) ports.IntelReply {
	reply := ports.IntelReply{
		Kind:            ports.ReplyAnswer,
		Text:            body.Text,
		Recommendations: body.Recommendations,
	}

	isUpdate := body.Type == string(ports.ReplyRouteUpdate)
	if body.Type == "" && len(body.Path) > 0 && body.Distance != nil {
		isUpdate = true
	}
	if isUpdate {
		if len(body.Path) == 0 {
			c.logger.Warn("Route update reply carried no path; treating as answer")
			return reply
		}
		reply.Kind = ports.ReplyRouteUpdate
		reply.Path = &entities.Path{
			NodeSequence: body.Path,
			Distance:     body.Distance,
		}
	}
	return reply
}
