package providers

import (
	"context"
	"fmt"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
)

// NewProvider creates the provider named by cfg.Type.
func NewProvider(ctx context.Context, cfg llm.ProviderConfig) (llm.LLMProvider, error) {
	switch llm.NormalizeProviderName(string(cfg.Type)) {
	case llm.ProviderGoogle:
		return NewGoogleProvider(ctx, cfg)
	case llm.ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case llm.ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case llm.ProviderOllama:
		return NewOllamaProvider(cfg)
	case llm.ProviderMock:
		return NewOfflineMockProvider(), nil
	default:
		return nil, llm.NewInvalidRequestError(fmt.Sprintf("unknown provider type: %s", cfg.Type))
	}
}
