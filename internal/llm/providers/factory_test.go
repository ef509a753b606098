package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), llm.ProviderConfig{Type: "MOCK"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
	assert.True(t, p.Health(context.Background()).IsHealthy())
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), llm.ProviderConfig{Type: "bedrock"})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, llm.ErrInvalidRequest))
}

func TestNewProvider_MissingKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	for _, pt := range []llm.ProviderType{llm.ProviderGoogle, llm.ProviderOpenAI, llm.ProviderAnthropic} {
		t.Run(string(pt), func(t *testing.T) {
			_, err := NewProvider(context.Background(), llm.ProviderConfig{Type: pt})
			require.Error(t, err)
			assert.True(t, types.HasCode(err, llm.ErrProviderUnauthorized))
		})
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	p, err := NewProvider(context.Background(), llm.ProviderConfig{Type: llm.ProviderOllama, DefaultModel: "llama3.1"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}
