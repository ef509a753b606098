package llm

import (
	"context"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// LLMProvider is the narrow contract the pipeline needs from a remote
// text-generation endpoint. Implementations live in the providers package.
type LLMProvider interface {
	// Name returns the provider name (e.g., "google", "openai", "ollama")
	Name() string

	// Models returns information about the models this provider serves
	Models(ctx context.Context) ([]ModelInfo, error)

	// Complete sends a completion request and blocks for the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks the provider's reachability
	Health(ctx context.Context) types.HealthStatus
}

// ModelInfo contains metadata about an LLM model.
type ModelInfo struct {
	Name          string   `json:"name"`
	ContextWindow int      `json:"context_window"`
	MaxOutput     int      `json:"max_output"`
	Features      []string `json:"features"`
}

// SupportsFeature checks if the model supports a given feature
func (m ModelInfo) SupportsFeature(feature string) bool {
	for _, f := range m.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// SupportsJSONMode checks if the model supports structured JSON output
func (m ModelInfo) SupportsJSONMode() bool {
	return m.SupportsFeature("json")
}
