package graphrag

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Span names for store operations.
const (
	SpanStoreInit         = "ontograph.store.init"
	SpanStoreExists       = "ontograph.store.exists"
	SpanStoreEntity       = "ontograph.store.entity"
	SpanStoreRelationship = "ontograph.store.relationship"
	SpanStoreContext      = "ontograph.store.context"
	SpanStoreStats        = "ontograph.store.stats"
	SpanStoreFind         = "ontograph.store.find"
	SpanStoreNeighborhood = "ontograph.store.neighborhood"
	SpanStoreExport       = "ontograph.store.export"
)

// TracedStore wraps a KnowledgeStore with OpenTelemetry spans. Each span
// carries the backend name and the operation duration.
type TracedStore struct {
	inner   KnowledgeStore
	tracer  trace.Tracer
	backend string
}

// NewTracedStore wraps inner. A nil tracer provider uses the global one.
func NewTracedStore(inner KnowledgeStore, tp trace.TracerProvider, backend string) *TracedStore {
	return &TracedStore{inner: inner, tracer: observability.Tracer(tp), backend: backend}
}

func (s *TracedStore) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("ontograph.store.backend", s.backend))
	span.SetAttributes(attrs...)
	return ctx, span, time.Now()
}

func finish(span trace.Span, started time.Time, err error) {
	span.SetAttributes(attribute.Float64("ontograph.store.duration_ms", float64(time.Since(started).Microseconds())/1000))
	if err != nil && IsSystemic(err) {
		span.SetAttributes(attribute.Bool("ontograph.store.systemic", true))
	}
	observability.EndSpan(span, err)
}

func (s *TracedStore) InitializeOntology(ctx context.Context) (err error) {
	ctx, span, started := s.start(ctx, SpanStoreInit)
	defer func() { finish(span, started, err) }()
	return s.inner.InitializeOntology(ctx)
}

func (s *TracedStore) EntityExists(ctx context.Context, id string) (exists bool, err error) {
	ctx, span, started := s.start(ctx, SpanStoreExists, attribute.String("ontograph.entity.id", id))
	defer func() {
		span.SetAttributes(attribute.Bool("ontograph.entity.exists", exists))
		finish(span, started, err)
	}()
	return s.inner.EntityExists(ctx, id)
}

func (s *TracedStore) CreateEntity(ctx context.Context, e ontology.Entity) (err error) {
	ctx, span, started := s.start(ctx, SpanStoreEntity,
		attribute.String("ontograph.entity.id", e.ID),
		attribute.String("ontograph.entity.type", string(e.Type)))
	defer func() { finish(span, started, err) }()
	return s.inner.CreateEntity(ctx, e)
}

func (s *TracedStore) CreateRelationship(ctx context.Context, r ontology.Relationship) (err error) {
	ctx, span, started := s.start(ctx, SpanStoreRelationship,
		attribute.String("ontograph.relationship.key", r.Key()),
		attribute.String("ontograph.relationship.type", r.Type))
	defer func() { finish(span, started, err) }()
	return s.inner.CreateRelationship(ctx, r)
}

func (s *TracedStore) RecentContext(ctx context.Context, limit int) (out []ontology.ContextEntity, err error) {
	ctx, span, started := s.start(ctx, SpanStoreContext, attribute.Int("ontograph.context.limit", limit))
	defer func() {
		span.SetAttributes(attribute.Int("ontograph.context.returned", len(out)))
		finish(span, started, err)
	}()
	return s.inner.RecentContext(ctx, limit)
}

func (s *TracedStore) Stats(ctx context.Context) (stats ontology.GraphStats, err error) {
	ctx, span, started := s.start(ctx, SpanStoreStats)
	defer func() { finish(span, started, err) }()
	return s.inner.Stats(ctx)
}

func (s *TracedStore) FindEntities(ctx context.Context, keyword string, limit int) (ids []string, err error) {
	ctx, span, started := s.start(ctx, SpanStoreFind, attribute.Int("ontograph.find.limit", limit))
	defer func() {
		span.SetAttributes(attribute.Int("ontograph.find.returned", len(ids)))
		finish(span, started, err)
	}()
	return s.inner.FindEntities(ctx, keyword, limit)
}

func (s *TracedStore) Neighborhoods(ctx context.Context, ids []string, limit int) (out []ontology.Neighborhood, err error) {
	ctx, span, started := s.start(ctx, SpanStoreNeighborhood,
		attribute.Int("ontograph.neighborhood.requested", len(ids)),
		attribute.Int("ontograph.neighborhood.limit", limit))
	defer func() {
		span.SetAttributes(attribute.Int("ontograph.neighborhood.returned", len(out)))
		finish(span, started, err)
	}()
	return s.inner.Neighborhoods(ctx, ids, limit)
}

func (s *TracedStore) Export(ctx context.Context, limit int) (view ontology.GraphView, err error) {
	ctx, span, started := s.start(ctx, SpanStoreExport, attribute.Int("ontograph.export.limit", limit))
	defer func() {
		span.SetAttributes(
			attribute.Int("ontograph.export.nodes", len(view.Nodes)),
			attribute.Int("ontograph.export.edges", len(view.Edges)))
		finish(span, started, err)
	}()
	return s.inner.Export(ctx, limit)
}

func (s *TracedStore) Health(ctx context.Context) types.HealthStatus {
	return s.inner.Health(ctx)
}

func (s *TracedStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

var _ KnowledgeStore = (*TracedStore)(nil)
