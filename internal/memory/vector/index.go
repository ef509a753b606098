package vector

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// SemanticIndex is the side index of applied entities. Writes to it are
// best-effort from the pipeline's point of view.
type SemanticIndex interface {
	// Upsert embeds text and stores it under id, replacing any prior entry.
	Upsert(ctx context.Context, id, text string, metadata map[string]any) error

	// Search embeds text and returns the topK most similar entries.
	Search(ctx context.Context, text string, topK int) ([]SearchHit, error)

	Health(ctx context.Context) types.HealthStatus

	Close() error
}

// SearchHit is one Search result.
type SearchHit struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// EmbeddingIndex implements SemanticIndex over an Embedder and a VectorStore.
type EmbeddingIndex struct {
	embedder embedder.Embedder
	store    VectorStore
	tracer   trace.Tracer
	backend  string
}

// NewEmbeddingIndex joins emb and store. Their dimensions must agree.
func NewEmbeddingIndex(emb embedder.Embedder, store VectorStore, backend string, tp trace.TracerProvider) *EmbeddingIndex {
	return &EmbeddingIndex{
		embedder: emb,
		store:    store,
		tracer:   observability.Tracer(tp),
		backend:  backend,
	}
}

func (x *EmbeddingIndex) Upsert(ctx context.Context, id, text string, metadata map[string]any) (err error) {
	ctx, span := x.tracer.Start(ctx, "ontograph.index.upsert", trace.WithAttributes(
		attribute.String("ontograph.index.backend", x.backend),
		attribute.String("ontograph.entity.id", id),
	))
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(id) == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "index entry id cannot be empty")
	}
	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	return x.store.Store(ctx, VectorRecord{
		ID:        id,
		Content:   text,
		Embedding: vec,
		Metadata:  metadata,
		UpdatedAt: time.Now().UTC(),
	})
}

func (x *EmbeddingIndex) Search(ctx context.Context, text string, topK int) (hits []SearchHit, err error) {
	ctx, span := x.tracer.Start(ctx, "ontograph.index.search", trace.WithAttributes(
		attribute.String("ontograph.index.backend", x.backend),
		attribute.Int("ontograph.index.top_k", topK),
	))
	defer func() {
		span.SetAttributes(attribute.Int("ontograph.index.hits", len(hits)))
		observability.EndSpan(span, err)
	}()

	vec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	results, err := x.store.Search(ctx, VectorQuery{Embedding: vec, TopK: topK})
	if err != nil {
		return nil, err
	}

	hits = make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{
			ID:       r.Record.ID,
			Text:     r.Record.Content,
			Score:    r.Score,
			Metadata: r.Record.Metadata,
		}
	}
	return hits, nil
}

// Health combines the embedder and store health.
func (x *EmbeddingIndex) Health(ctx context.Context) types.HealthStatus {
	return types.CombineHealth(map[string]types.HealthStatus{
		"embedder": x.embedder.Health(ctx),
		"store":    x.store.Health(ctx),
	})
}

func (x *EmbeddingIndex) Close() error {
	return x.store.Close()
}

// DisabledIndex accepts writes and discards them. Used when vector.backend
// is "none".
type DisabledIndex struct{}

func (DisabledIndex) Upsert(context.Context, string, string, map[string]any) error { return nil }

func (DisabledIndex) Search(context.Context, string, int) ([]SearchHit, error) {
	return nil, types.NewError(ErrCodeIndexDisabled, "semantic index is disabled (vector.backend=none)")
}

func (DisabledIndex) Health(context.Context) types.HealthStatus {
	return types.Healthy("semantic index disabled")
}

func (DisabledIndex) Close() error { return nil }
