package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// ProviderType represents the type of LLM provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
	ProviderMock      ProviderType = "mock"
)

// ProviderConfig contains configuration for the generation endpoint.
type ProviderConfig struct {
	Type         ProviderType    `mapstructure:"provider" yaml:"provider" validate:"required,oneof=google openai anthropic ollama mock"`
	APIKey       string          `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL      string          `mapstructure:"base_url" yaml:"base_url,omitempty"`
	DefaultModel string          `mapstructure:"model" yaml:"model" validate:"required"`
	Temperature  float64         `mapstructure:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens    int             `mapstructure:"max_tokens" yaml:"max_tokens" validate:"min=0"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Validate performs validation that struct tags cannot express.
func (p *ProviderConfig) Validate() error {
	switch p.Type {
	case ProviderGoogle, ProviderOpenAI, ProviderAnthropic:
		if p.APIKey == "" {
			return types.NewError(types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("api_key is required for provider '%s'", p.Type))
		}
	case ProviderOllama, ProviderMock:
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid provider type '%s'", p.Type))
	}
	return p.RateLimit.Validate()
}

// RateLimitConfig tunes the shared generation gate.
type RateLimitConfig struct {
	// MinDelay is the minimum spacing between the starts of two calls.
	MinDelay time.Duration `mapstructure:"min_delay" yaml:"min_delay"`
	// BaseDelay is the first backoff step; attempt n waits BaseDelay*2^n.
	BaseDelay time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
	// MaxRetries bounds the retries after the first throttled attempt.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
}

// DefaultRateLimitConfig matches the free-tier Gemini limits.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MinDelay:   time.Second,
		BaseDelay:  2 * time.Second,
		MaxRetries: 3,
	}
}

// Validate rejects negative durations.
func (r RateLimitConfig) Validate() error {
	if r.MinDelay < 0 || r.BaseDelay < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "rate_limit delays must be non-negative")
	}
	if r.MaxRetries < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "rate_limit.max_retries must be non-negative")
	}
	return nil
}

// NormalizeProviderName normalizes provider names to lowercase for consistent lookup.
func NormalizeProviderName(name string) ProviderType {
	return ProviderType(strings.ToLower(strings.TrimSpace(name)))
}
