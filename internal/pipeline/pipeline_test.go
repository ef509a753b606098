package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/config"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/events"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/orchestrator"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// offlineConfig runs every component in process.
func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfigAt(t.TempDir())
	cfg.LLM.Type = llm.ProviderMock
	cfg.LLM.RateLimit = llm.RateLimitConfig{}
	cfg.Graph.Backend = graphrag.BackendMemory
	cfg.Vector.Backend = vector.BackendEmbedded
	cfg.Embedder.Provider = string(embedder.EmbedderTypeMock)
	cfg.Embedder.Dimensions = 32
	return cfg
}

func TestNew_OfflineEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := graphrag.NewMemoryStore()

	p, err := New(ctx, offlineConfig(t),
		WithStore(store),
		WithLogger(observability.NopLogger()),
		WithClock(llm.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, p.Close(context.Background())) })

	res, err := p.Orchestrator.Run(ctx, "OBSERVATION: quarterly budget review happens every March")
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, orchestrator.StateFinalize, res.State)
	assert.Equal(t, []string{"Proposer", "Validator", "Critic", "Applier", "SemanticIndex"}, res.Agents())

	require.NotNil(t, res.Changes)
	require.Equal(t, 1, res.Changes.EntitiesApplied)
	id := res.Changes.AppliedEntities[0]
	_, stored := store.Entity(id)
	assert.True(t, stored)

	hits, err := p.Index.Search(ctx, "quarterly budget review", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].ID)

	ans, err := p.Answerer.Ask(ctx, "When is the quarterly budget review?")
	require.NoError(t, err)
	assert.Equal(t, agents.StrategyTargeted, ans.Strategy)
	assert.Equal(t, []string{id}, ans.SimilarEntities)
	require.Len(t, ans.Context, 1)
	assert.Equal(t, id, ans.Context[0].ID)
	assert.Contains(t, ans.Answer, "Offline answer: see")
}

func TestNew_PublishesToBus(t *testing.T) {
	ctx := context.Background()
	cfg := offlineConfig(t)
	cfg.Vector.Backend = vector.BackendNone

	p, err := New(ctx, cfg, WithLogger(observability.NopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	ch, cancel := p.Events.Subscribe(ctx, events.Filter{Types: []events.EventType{events.EventRunCompleted}}, 4)
	defer cancel()

	res, err := p.Orchestrator.Run(ctx, "OBSERVATION: the warehouse ships orders daily")
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, res.RunID, ev.RunID)
	case <-time.After(time.Second):
		t.Fatal("no run.completed event")
	}
}

func TestNew_CriticDisabledByConfig(t *testing.T) {
	ctx := context.Background()
	cfg := offlineConfig(t)
	cfg.Pipeline.Enabled = false

	p, err := New(ctx, cfg, WithLogger(observability.NopLogger()), WithIndex(vector.NewMockIndex()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	res, err := p.Orchestrator.Run(ctx, "OBSERVATION: finance approves every invoice")
	require.NoError(t, err)
	_, traced := res.Step("Critic")
	assert.False(t, traced)
	require.NotNil(t, res.Critique)
	assert.Equal(t, "N/A", res.Critique.OverallScore.String())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   types.ErrorCode
	}{
		{
			name: "provider without api key",
			mutate: func(c *config.Config) {
				c.LLM.Type = llm.ProviderGoogle
				c.LLM.APIKey = ""
			},
			code: types.CONFIG_VALIDATION_FAILED,
		},
		{
			name:   "unknown graph backend",
			mutate: func(c *config.Config) { c.Graph.Backend = "dgraph" },
			code:   types.INIT_STORE_FAILED,
		},
		{
			name:   "unknown embedder",
			mutate: func(c *config.Config) { c.Embedder.Provider = "cohere" },
			code:   types.INIT_CONFIG_FAILED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := offlineConfig(t)
			tt.mutate(cfg)

			_, err := New(context.Background(), cfg, WithLogger(observability.NopLogger()))
			require.Error(t, err)
			assert.True(t, types.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
}

func TestOpenIndex_None(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Vector.Backend = vector.BackendNone
	cfg.Embedder.Provider = "unused"

	index, err := OpenIndex(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, vector.DisabledIndex{}, index)
}
