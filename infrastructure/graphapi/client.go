// Package graphapi is the HTTP client for the remote graph persistence and
// search service.
package graphapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
	pkgerrors "pathfinder-backend/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Client talks to the graph service over HTTP. Requests run inside a
// circuit breaker so a struggling backend sheds load instead of queueing
// timeouts.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ ports.GraphService = (*Client)(nil)

// NewClient creates a graph service client for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "graph-service",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Rejected requests are the caller's fault, not the service's;
			// they must not trip the breaker.
			return err == nil || pkgerrors.IsValidation(err) || pkgerrors.IsNotFound(err)
		},
	})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: cb,
		logger:  logger,
	}
}

// ListNodes returns every node keyed by name
func (c *Client) ListNodes(ctx context.Context) (map[string]valueobjects.Coordinate, error) {
	var out map[string]valueobjects.Coordinate
	if err := c.call(ctx, http.MethodGet, "/nodes", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]valueobjects.Coordinate)
	}
	return out, nil
}

type nodePayload struct {
	Name     string                  `json:"name"`
	Position valueobjects.Coordinate `json:"position"`
}

// CreateNode registers a node and returns the confirmed entity
func (c *Client) CreateNode(ctx context.Context, name string, position valueobjects.Coordinate) (*entities.Node, error) {
	var resp nodePayload
	if err := c.call(ctx, http.MethodPost, "/nodes", nodePayload{Name: name, Position: position}, &resp); err != nil {
		return nil, err
	}
	return entities.NewNode(resp.Name, resp.Position)
}

// DeleteNode removes a node by name
func (c *Client) DeleteNode(ctx context.Context, name string) error {
	return c.call(ctx, http.MethodDelete, "/nodes/"+url.PathEscape(name), nil, nil)
}

type edgePayload struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

// ListEdges returns every edge
func (c *Client) ListEdges(ctx context.Context) ([]entities.Edge, error) {
	var raw []edgePayload
	if err := c.call(ctx, http.MethodGet, "/edges", nil, &raw); err != nil {
		return nil, err
	}
	edges := make([]entities.Edge, 0, len(raw))
	for _, p := range raw {
		edge, err := entities.NewEdge(p.ID, p.Source, p.Target, p.Weight)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "graph service returned an invalid edge")
		}
		edges = append(edges, *edge)
	}
	return edges, nil
}

// CreateEdge registers an edge. A nil weight asks the server to derive the
// distance from the endpoint coordinates.
func (c *Client) CreateEdge(ctx context.Context, source, target string, weight *float64) (*entities.Edge, error) {
	var resp edgePayload
	req := edgePayload{Source: source, Target: target, Weight: weight}
	if err := c.call(ctx, http.MethodPost, "/edges", req, &resp); err != nil {
		return nil, err
	}
	return entities.NewEdge(resp.ID, resp.Source, resp.Target, resp.Weight)
}

// DeleteEdge removes an edge by ID
func (c *Client) DeleteEdge(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/edges/"+url.PathEscape(id), nil, nil)
}

type pathResponse struct {
	Path     []string `json:"path"`
	Distance *float64 `json:"distance"`
}

// FindPath runs the shortest-path search
func (c *Client) FindPath(ctx context.Context, query ports.PathQuery) (entities.Path, error) {
	var resp pathResponse
	if err := c.call(ctx, http.MethodPost, "/path", query, &resp); err != nil {
		return entities.Path{}, err
	}
	if len(resp.Path) == 0 {
		return entities.Path{}, pkgerrors.NewNotFound(fmt.Sprintf("no path between %s and %s", query.Start, query.End))
	}
	return entities.Path{NodeSequence: resp.Path, Distance: resp.Distance}, nil
}

type densityPayload struct {
	K int `json:"k"`
}

// UpdateRouteDensity commits a new K-value and returns the accepted value
func (c *Client) UpdateRouteDensity(ctx context.Context, k int) (int, error) {
	var resp densityPayload
	if err := c.call(ctx, http.MethodPut, "/settings/route-density", densityPayload{K: k}, &resp); err != nil {
		return 0, err
	}
	return resp.K, nil
}

// ImportDataset replaces the server-side graph with the given dataset
func (c *Client) ImportDataset(ctx context.Context, ds ports.Dataset) error {
	return c.call(ctx, http.MethodPost, "/dataset/import", ds, nil)
}

// ExportDataset returns the full graph as a dataset
func (c *Client) ExportDataset(ctx context.Context) (ports.Dataset, error) {
	var ds ports.Dataset
	if err := c.call(ctx, http.MethodGet, "/dataset/export", nil, &ds); err != nil {
		return ports.Dataset{}, err
	}
	return ds, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call runs one request through the breaker and maps failures onto the
// engine's error taxonomy: 400 family to validation, 404 to not found,
// transport errors and 5xx to transient.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, method, path, body, out)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return pkgerrors.NewTransient("graph service is unavailable", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.NewInternal("failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.NewInternal("failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewTransient("graph service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.NewTransient("failed to decode graph service response", err)
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response) error {
	var body errorResponse
	json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = fmt.Sprintf("graph service returned %s", resp.Status)
	}

	c.logger.Debug("Graph service error response",
		zap.Int("status", resp.StatusCode),
		zap.String("message", message),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.NewNotFound(message)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return pkgerrors.NewValidation(message)
	default:
		return pkgerrors.NewTransient(message, nil)
	}
}
