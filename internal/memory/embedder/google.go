package embedder

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

const (
	// DefaultGoogleModel is the Gemini embedding model.
	DefaultGoogleModel = "text-embedding-004"
	// DefaultGoogleDimensions is the output width of DefaultGoogleModel.
	DefaultGoogleDimensions = 768
)

// NewGoogleEmbedder creates a Gemini-backed embedder.
func NewGoogleEmbedder(ctx context.Context, cfg EmbedderConfig) (*LangchainEmbedder, error) {
	apiKey := cfg.APIKey
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if apiKey != "" {
			break
		}
		apiKey = os.Getenv(env)
	}
	if apiKey == "" {
		return nil, types.NewError(ErrCodeInvalidConfig,
			"google embedder requires api_key (or GEMINI_API_KEY environment variable)")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGoogleModel
	}
	dims := cfg.Dimensions
	if dims == 0 {
		dims = DefaultGoogleDimensions
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultEmbeddingModel(model),
	)
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbedderUnavailable, "failed to create google client", err)
	}

	opts := []embeddings.Option{embeddings.WithStripNewLines(true)}
	if cfg.BatchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(cfg.BatchSize))
	}
	inner, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, types.WrapError(ErrCodeEmbedderUnavailable, "failed to create embedder", err)
	}

	return NewLangchainEmbedder(inner, model, dims), nil
}
