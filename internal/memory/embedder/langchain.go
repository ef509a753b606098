package embedder

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// LangchainEmbedder adapts a langchaingo embeddings.Embedder. Vectors come
// back as float32 and are widened; their width is checked against dims.
type LangchainEmbedder struct {
	inner embeddings.Embedder
	model string
	dims  int
}

// NewLangchainEmbedder wraps inner. A zero dims skips the width check.
func NewLangchainEmbedder(inner embeddings.Embedder, model string, dims int) *LangchainEmbedder {
	return &LangchainEmbedder{inner: inner, model: model, dims: dims}
}

func (e *LangchainEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.NewError(ErrCodeEmbeddingFailed, "cannot embed empty text")
	}
	vec, err := e.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingFailed, "embedding request failed", err)
	}
	return e.widen(vec)
}

func (e *LangchainEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	vecs, err := e.inner.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingBatchFailed, "batch embedding request failed", err)
	}
	if len(vecs) != len(texts) {
		return nil, types.NewError(ErrCodeEmbeddingBatchFailed,
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(vecs)))
	}
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		w, err := e.widen(v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func (e *LangchainEmbedder) Dimensions() int { return e.dims }

func (e *LangchainEmbedder) Model() string { return e.model }

// Health embeds a short fixed string.
func (e *LangchainEmbedder) Health(ctx context.Context) types.HealthStatus {
	if _, err := e.Embed(ctx, "health check"); err != nil {
		return types.Unhealthy(fmt.Sprintf("embedder %s: %v", e.model, err))
	}
	return types.Healthy(fmt.Sprintf("embedder %s operational (dims: %d)", e.model, e.dims))
}

func (e *LangchainEmbedder) widen(v []float32) ([]float64, error) {
	if e.dims > 0 && len(v) != e.dims {
		return nil, types.NewError(ErrCodeDimensionMismatch,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", e.dims, len(v)))
	}
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out, nil
}
