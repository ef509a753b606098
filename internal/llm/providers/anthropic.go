package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// AnthropicProvider implements LLMProvider for Claude models.
type AnthropicProvider struct {
	client *anthropic.LLM
	config llm.ProviderConfig
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(cfg llm.ProviderConfig) (*AnthropicProvider, error) {
	apiKey := firstNonEmpty(cfg.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, llm.NewAuthError("anthropic", nil)
	}

	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if cfg.DefaultModel != "" {
		opts = append(opts, anthropic.WithModel(cfg.DefaultModel))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}
	return &AnthropicProvider{client: client, config: cfg}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{Name: "claude-sonnet-4-5-20250929", ContextWindow: 200000, MaxOutput: 8192, Features: []string{"chat"}},
		{Name: "claude-3-5-haiku-20241022", ContextWindow: 200000, MaxOutput: 8192, Features: []string{"chat"}},
	}, nil
}

// Complete sends a completion request. Anthropic has no JSON mode so the
// flag is dropped and the prompt alone asks for JSON.
func (p *AnthropicProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	req.JSONMode = false
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}
	return fromLangchainResponse(resp, req.Model), nil
}

func (p *AnthropicProvider) Health(ctx context.Context) types.HealthStatus {
	if _, err := p.Complete(ctx, healthRequest(p.config.DefaultModel)); err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("")
}
