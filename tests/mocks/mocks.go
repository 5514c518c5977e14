// Package mocks provides testify mocks for the engine's collaborator ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// MockGraphService is a mock implementation of ports.GraphService
type MockGraphService struct {
	mock.Mock
}

func (m *MockGraphService) ListNodes(ctx context.Context) (map[string]valueobjects.Coordinate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]valueobjects.Coordinate), args.Error(1)
}

func (m *MockGraphService) CreateNode(ctx context.Context, name string, position valueobjects.Coordinate) (*entities.Node, error) {
	args := m.Called(ctx, name, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Node), args.Error(1)
}

func (m *MockGraphService) DeleteNode(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockGraphService) ListEdges(ctx context.Context) ([]entities.Edge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Edge), args.Error(1)
}

func (m *MockGraphService) CreateEdge(ctx context.Context, source, target string, weight *float64) (*entities.Edge, error) {
	args := m.Called(ctx, source, target, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Edge), args.Error(1)
}

func (m *MockGraphService) DeleteEdge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGraphService) FindPath(ctx context.Context, query ports.PathQuery) (entities.Path, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(entities.Path), args.Error(1)
}

func (m *MockGraphService) UpdateRouteDensity(ctx context.Context, k int) (int, error) {
	args := m.Called(ctx, k)
	return args.Int(0), args.Error(1)
}

func (m *MockGraphService) ImportDataset(ctx context.Context, ds ports.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockGraphService) ExportDataset(ctx context.Context) (ports.Dataset, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Dataset), args.Error(1)
}

// MockRoadRouter is a mock implementation of ports.RoadRouter
type MockRoadRouter struct {
	mock.Mock
}

func (m *MockRoadRouter) SnapToRoad(ctx context.Context, c valueobjects.Coordinate) (valueobjects.Coordinate, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(valueobjects.Coordinate), args.Error(1)
}

func (m *MockRoadRouter) Route(ctx context.Context, coords []valueobjects.Coordinate) (ports.RoadRoute, error) {
	args := m.Called(ctx, coords)
	return args.Get(0).(ports.RoadRoute), args.Error(1)
}

// MockRouteIntelligence is a mock implementation of ports.RouteIntelligence
type MockRouteIntelligence struct {
	mock.Mock
}

func (m *MockRouteIntelligence) Query(ctx context.Context, query string, route *entities.Path) (ports.IntelReply, error) {
	args := m.Called(ctx, query, route)
	return args.Get(0).(ports.IntelReply), args.Error(1)
}
