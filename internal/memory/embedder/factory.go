package embedder

import (
	"context"
	"fmt"
	"strings"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// EmbedderType represents available embedder implementations.
type EmbedderType string

const (
	// EmbedderTypeGoogle uses the Gemini embedding API. Requires an API key.
	EmbedderTypeGoogle EmbedderType = "google"

	// EmbedderTypeMock produces deterministic hash-seeded vectors offline.
	EmbedderTypeMock EmbedderType = "mock"
)

// CreateEmbedder creates an embedder based on the provided configuration.
func CreateEmbedder(ctx context.Context, config EmbedderConfig) (Embedder, error) {
	if err := ValidateEmbedderConfig(config); err != nil {
		return nil, err
	}

	switch EmbedderType(strings.ToLower(config.Provider)) {
	case EmbedderTypeGoogle:
		return NewGoogleEmbedder(ctx, config)

	case EmbedderTypeMock:
		m := NewMockEmbedder()
		if config.Dimensions > 0 {
			m.SetDimensions(config.Dimensions)
		}
		if config.Model != "" {
			m.SetModel(config.Model)
		}
		return m, nil
	}
	return nil, unknownProvider(config.Provider)
}

// ValidateEmbedderConfig validates an embedder configuration.
func ValidateEmbedderConfig(config EmbedderConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	switch EmbedderType(strings.ToLower(config.Provider)) {
	case EmbedderTypeGoogle, EmbedderTypeMock:
		return nil
	}
	return unknownProvider(config.Provider)
}

func unknownProvider(name string) error {
	return types.NewError(ErrCodeInvalidConfig,
		fmt.Sprintf("unknown embedder provider '%s' - must be 'google' or 'mock'", name))
}
