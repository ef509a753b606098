package embedder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder()

	a, err := e.Embed(ctx, "Department: Sales")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "Department: Sales")
	require.NoError(t, err)
	c, err := e.Embed(ctx, "Role: Manager")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, MockDimensions)
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	v, err := NewMockEmbedder().Embed(context.Background(), "anything")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
}

func TestMockEmbedder_BatchMatchesSingle(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder()
	e.SetDimensions(8)

	batch, err := e.EmbedBatch(ctx, []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	single, err := e.Embed(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, single, batch[1])
	assert.Len(t, single, 8)

	calls := e.GetCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "EmbedBatch", calls[0].Method)
	assert.Equal(t, []string{"one", "two"}, calls[0].Texts)
}

func TestMockEmbedder_Errors(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder()
	boom := errors.New("boom")

	e.SetEmbedError(boom)
	_, err := e.Embed(ctx, "x")
	assert.ErrorIs(t, err, boom)

	e.SetBatchError(boom)
	_, err = e.EmbedBatch(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)

	e.SetHealthStatus(types.Unhealthy("down"))
	assert.True(t, e.Health(ctx).IsUnhealthy())
	assert.Equal(t, 3, e.CallCount())
}
