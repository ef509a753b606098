package config

import (
	"path/filepath"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
)

// Pipeline defaults.
const (
	DefaultRunTimeout   = 5 * time.Minute
	DefaultIndexTimeout = 30 * time.Second
	DefaultModel        = "gemini-1.5-flash"
)

// DefaultConfig returns a Config with sensible default values rooted at the
// default home directory.
func DefaultConfig() *Config {
	return DefaultConfigAt(DefaultHomeDir())
}

// DefaultConfigAt returns the default Config rooted at homeDir.
func DefaultConfigAt(homeDir string) *Config {
	dataDir := filepath.Join(homeDir, "data")

	return &Config{
		Core: CoreConfig{
			HomeDir: homeDir,
			DataDir: dataDir,
		},
		LLM: llm.ProviderConfig{
			Type:         llm.ProviderGoogle,
			DefaultModel: DefaultModel,
			Temperature:  0.2,
			MaxTokens:    2048,
			RateLimit:    llm.DefaultRateLimitConfig(),
		},
		Pipeline: PipelineConfig{
			CriticConfig:      agents.DefaultCriticConfig(),
			ReferentialPolicy: ReferentialAllowExternal,
			RunTimeout:        DefaultRunTimeout,
			IndexTimeout:      DefaultIndexTimeout,
			Concurrency:       1,
		},
		Cache: agents.DefaultCacheConfig(),
		Graph: graphrag.DefaultConfig(),
		Vector: vector.VectorStoreConfig{
			Backend:     vector.BackendEmbedded,
			StoragePath: filepath.Join(dataDir, "index.db"),
		},
		Embedder: embedder.DefaultEmbedderConfig(),
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			Provider:    "otlp",
			ServiceName: "ontograph",
			SampleRate:  1.0,
		},
		Metrics: observability.MetricsConfig{
			Enabled:  false,
			Provider: "prometheus",
			Port:     9090,
		},
	}
}
