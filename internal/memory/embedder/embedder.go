package embedder

import (
	"context"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Embedder generates embedding vectors from text content.
// Implementations must be thread-safe for concurrent access.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimensionality of embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model being used.
	Model() string

	// Health returns the health status of the embedder.
	Health(ctx context.Context) types.HealthStatus
}

// EmbedderConfig holds configuration for embedding providers.
type EmbedderConfig struct {
	// Provider selects the implementation: "google" or "mock".
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider" validate:"required,oneof=google mock"`

	// Model is the embedding model name. Empty selects the provider default.
	Model string `yaml:"model" json:"model" mapstructure:"model"`

	// APIKey falls back to GEMINI_API_KEY, then GOOGLE_API_KEY.
	APIKey string `yaml:"api_key" json:"-" mapstructure:"api_key"`

	// Dimensions is the vector width the index is created with.
	Dimensions int `yaml:"dimensions" json:"dimensions" mapstructure:"dimensions" validate:"gte=0"`

	// BatchSize caps texts per upstream request.
	BatchSize int `yaml:"batch_size" json:"batch_size" mapstructure:"batch_size" validate:"gte=0"`
}

// Validate checks if the EmbedderConfig is valid.
func (c *EmbedderConfig) Validate() error {
	if c.Provider == "" {
		return types.NewError(ErrCodeInvalidConfig, "embedder provider cannot be empty")
	}
	if c.Dimensions < 0 {
		return types.NewError(ErrCodeInvalidConfig, "dimensions must be non-negative")
	}
	if c.BatchSize < 0 {
		return types.NewError(ErrCodeInvalidConfig, "batch_size must be non-negative")
	}
	return nil
}

// DefaultEmbedderConfig returns the Gemini embedding configuration.
func DefaultEmbedderConfig() EmbedderConfig {
	return EmbedderConfig{
		Provider:   string(EmbedderTypeGoogle),
		Model:      DefaultGoogleModel,
		Dimensions: DefaultGoogleDimensions,
		BatchSize:  100,
	}
}
