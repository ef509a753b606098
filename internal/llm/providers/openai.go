package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// OpenAIProvider implements LLMProvider for OpenAI-compatible endpoints.
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIProvider creates an OpenAI provider. BaseURL allows pointing at
// any compatible gateway.
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, llm.NewAuthError("openai", nil)
	}

	opts := []openai.Option{openai.WithToken(apiKey)}
	if cfg.DefaultModel != "" {
		opts = append(opts, openai.WithModel(cfg.DefaultModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}
	return &OpenAIProvider{client: client, config: cfg}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{Name: "gpt-4o", ContextWindow: 128000, MaxOutput: 16384, Features: []string{"chat", "json"}},
		{Name: "gpt-4o-mini", ContextWindow: 128000, MaxOutput: 16384, Features: []string{"chat", "json"}},
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}
	return fromLangchainResponse(resp, req.Model), nil
}

func (p *OpenAIProvider) Health(ctx context.Context) types.HealthStatus {
	if _, err := p.Complete(ctx, healthRequest(p.config.DefaultModel)); err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("")
}
