package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// DefaultGoogleModel is used when no model is configured.
const DefaultGoogleModel = "gemini-2.5-flash"

// GoogleProvider implements LLMProvider for Gemini models.
type GoogleProvider struct {
	client *googleai.GoogleAI
	config llm.ProviderConfig
}

// NewGoogleProvider creates a Gemini provider. The key falls back to
// GEMINI_API_KEY, then GOOGLE_API_KEY.
func NewGoogleProvider(ctx context.Context, cfg llm.ProviderConfig) (*GoogleProvider, error) {
	apiKey := firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	if apiKey == "" {
		return nil, llm.NewAuthError("google", nil)
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultGoogleModel
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(cfg.DefaultModel),
	)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	return &GoogleProvider{client: client, config: cfg}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{Name: "gemini-2.5-flash", ContextWindow: 1048576, MaxOutput: 65536, Features: []string{"chat", "json"}},
		{Name: "gemini-2.5-pro", ContextWindow: 1048576, MaxOutput: 65536, Features: []string{"chat", "json"}},
		{Name: "gemini-2.0-flash", ContextWindow: 1048576, MaxOutput: 8192, Features: []string{"chat", "json"}},
	}, nil
}

func (p *GoogleProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if req.Model == "" {
		req.Model = p.config.DefaultModel
	}
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}
	return fromLangchainResponse(resp, req.Model), nil
}

func (p *GoogleProvider) Health(ctx context.Context) types.HealthStatus {
	if _, err := p.Complete(ctx, healthRequest(p.config.DefaultModel)); err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
