package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/domain/core/valueobjects"
)

// TracerProvider wraps the OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes distributed tracing with an OTLP gRPC exporter
func InitTracing(serviceName, endpoint string) (*TracerProvider, error) {
	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &TracerProvider{
		provider: tp,
		tracer:   tp.Tracer(serviceName),
	}, nil
}

// Shutdown flushes and stops the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the provider's tracer
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// TraceGraphService wraps a graph service so every collaborator call is a
// span
func TraceGraphService(svc ports.GraphService, tracer trace.Tracer) ports.GraphService {
	return &tracedGraphService{inner: svc, tracer: tracer}
}

type tracedGraphService struct {
	inner  ports.GraphService
	tracer trace.Tracer
}

func (s *tracedGraphService) ListNodes(ctx context.Context) (map[string]valueobjects.Coordinate, error) {
	ctx, span := s.tracer.Start(ctx, "graph.ListNodes")
	defer span.End()

	nodes, err := s.inner.ListNodes(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return nodes, err
}

func (s *tracedGraphService) CreateNode(ctx context.Context, name string, position valueobjects.Coordinate) (*entities.Node, error) {
	ctx, span := s.tracer.Start(ctx, "graph.CreateNode",
		trace.WithAttributes(attribute.String("node.name", name)),
	)
	defer span.End()

	node, err := s.inner.CreateNode(ctx, name, position)
	if err != nil {
		span.RecordError(err)
	}
	return node, err
}

func (s *tracedGraphService) DeleteNode(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "graph.DeleteNode",
		trace.WithAttributes(attribute.String("node.name", name)),
	)
	defer span.End()

	err := s.inner.DeleteNode(ctx, name)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *tracedGraphService) ListEdges(ctx context.Context) ([]entities.Edge, error) {
	ctx, span := s.tracer.Start(ctx, "graph.ListEdges")
	defer span.End()

	edges, err := s.inner.ListEdges(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return edges, err
}

func (s *tracedGraphService) CreateEdge(ctx context.Context, source, target string, weight *float64) (*entities.Edge, error) {
	ctx, span := s.tracer.Start(ctx, "graph.CreateEdge",
		trace.WithAttributes(
			attribute.String("edge.source", source),
			attribute.String("edge.target", target),
		),
	)
	defer span.End()

	edge, err := s.inner.CreateEdge(ctx, source, target, weight)
	if err != nil {
		span.RecordError(err)
	}
	return edge, err
}

func (s *tracedGraphService) DeleteEdge(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "graph.DeleteEdge",
		trace.WithAttributes(attribute.String("edge.id", id)),
	)
	defer span.End()

	err := s.inner.DeleteEdge(ctx, id)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *tracedGraphService) FindPath(ctx context.Context, query ports.PathQuery) (entities.Path, error) {
	ctx, span := s.tracer.Start(ctx, "graph.FindPath",
		trace.WithAttributes(
			attribute.String("path.start", query.Start),
			attribute.String("path.end", query.End),
			attribute.Int("path.waypoints", len(query.Waypoints)),
			attribute.Int("path.avoid", len(query.Avoid)),
		),
	)
	defer span.End()

	path, err := s.inner.FindPath(ctx, query)
	if err != nil {
		span.RecordError(err)
	}
	return path, err
}

func (s *tracedGraphService) UpdateRouteDensity(ctx context.Context, k int) (int, error) {
	ctx, span := s.tracer.Start(ctx, "graph.UpdateRouteDensity",
		trace.WithAttributes(attribute.Int("density.k", k)),
	)
	defer span.End()

	accepted, err := s.inner.UpdateRouteDensity(ctx, k)
	if err != nil {
		span.RecordError(err)
	}
	return accepted, err
}

func (s *tracedGraphService) ImportDataset(ctx context.Context, ds ports.Dataset) error {
	ctx, span := s.tracer.Start(ctx, "graph.ImportDataset",
		trace.WithAttributes(
			attribute.Int("dataset.nodes", len(ds.Nodes)),
			attribute.Int("dataset.edges", len(ds.Edges)),
		),
	)
	defer span.End()

	err := s.inner.ImportDataset(ctx, ds)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *tracedGraphService) ExportDataset(ctx context.Context) (ports.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "graph.ExportDataset")
	defer span.End()

	ds, err := s.inner.ExportDataset(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return ds, err
}
