package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func newFuncEmbedder(t *testing.T, fn embeddings.EmbedderClientFunc, dims int) *LangchainEmbedder {
	t.Helper()
	inner, err := embeddings.NewEmbedder(fn)
	require.NoError(t, err)
	return NewLangchainEmbedder(inner, "func-model", dims)
}

func TestLangchainEmbedder_WidensVectors(t *testing.T) {
	e := newFuncEmbedder(t, func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{0.5, float32(i)}
		}
		return out, nil
	}, 2)

	v, err := e.Embed(context.Background(), "Department: Sales")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0}, v)

	batch, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0}, {0.5, 1}}, batch)

	assert.Equal(t, "func-model", e.Model())
	assert.Equal(t, 2, e.Dimensions())
	assert.True(t, e.Health(context.Background()).IsHealthy())
}

func TestLangchainEmbedder_DimensionMismatch(t *testing.T) {
	e := newFuncEmbedder(t, func(_ context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3}}, nil
	}, 2)

	_, err := e.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrCodeDimensionMismatch))
}

func TestLangchainEmbedder_UpstreamError(t *testing.T) {
	e := newFuncEmbedder(t, func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}, 0)

	_, err := e.Embed(context.Background(), "x")
	assert.True(t, types.HasCode(err, ErrCodeEmbeddingFailed))

	_, err = e.EmbedBatch(context.Background(), []string{"x"})
	assert.True(t, types.HasCode(err, ErrCodeEmbeddingBatchFailed))

	assert.True(t, e.Health(context.Background()).IsUnhealthy())
}

func TestLangchainEmbedder_EmptyInput(t *testing.T) {
	e := newFuncEmbedder(t, func(context.Context, []string) ([][]float32, error) {
		t.Fatal("should not be called")
		return nil, nil
	}, 0)

	_, err := e.Embed(context.Background(), "   ")
	assert.Error(t, err)

	out, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
