package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// DefaultOllamaURL is the local server address.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaProvider implements LLMProvider for local Ollama models.
type OllamaProvider struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaProvider creates an Ollama provider. JSON mode maps to the
// server's format=json option.
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	serverURL := firstNonEmpty(cfg.BaseURL, DefaultOllamaURL)

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
		ollama.WithFormat("json"),
	}
	if cfg.DefaultModel != "" {
		opts = append(opts, ollama.WithModel(cfg.DefaultModel))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}
	return &OllamaProvider{client: client, config: cfg}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Models returns common local models; the server is not queried.
func (p *OllamaProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{Name: "llama3.1", ContextWindow: 131072, MaxOutput: 4096, Features: []string{"chat", "json"}},
		{Name: "qwen2.5", ContextWindow: 32768, MaxOutput: 4096, Features: []string{"chat", "json"}},
	}, nil
}

func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	req.JSONMode = false
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}
	return fromLangchainResponse(resp, req.Model), nil
}

func (p *OllamaProvider) Health(ctx context.Context) types.HealthStatus {
	if _, err := p.Complete(ctx, healthRequest(p.config.DefaultModel)); err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("")
}
