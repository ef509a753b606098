package config

import (
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
)

// Config is the root configuration for ontograph.
type Config struct {
	Core     CoreConfig                  `mapstructure:"core" yaml:"core" json:"core"`
	LLM      llm.ProviderConfig          `mapstructure:"llm" yaml:"llm" json:"llm"`
	Pipeline PipelineConfig              `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Cache    agents.CacheConfig          `mapstructure:"cache" yaml:"cache" json:"cache"`
	Graph    graphrag.Config             `mapstructure:"graph" yaml:"graph" json:"graph"`
	Vector   vector.VectorStoreConfig    `mapstructure:"vector" yaml:"vector" json:"vector"`
	Embedder embedder.EmbedderConfig     `mapstructure:"embedder" yaml:"embedder" json:"embedder"`
	Logging  observability.LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Tracing  observability.TracingConfig `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
	Metrics  observability.MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	HomeDir string `mapstructure:"home_dir" yaml:"home_dir" json:"home_dir"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir"`
}

// Referential policy names accepted in pipeline.referential_policy.
const (
	ReferentialAllowExternal   = "allow_external"
	ReferentialRequireProposed = "require_proposed"
)

// PipelineConfig controls the orchestrated stages.
type PipelineConfig struct {
	agents.CriticConfig `mapstructure:",squash" yaml:",inline"`

	// ReferentialPolicy selects how relationships to entities outside the
	// proposed set are judged.
	ReferentialPolicy string `mapstructure:"referential_policy" yaml:"referential_policy" json:"referential_policy" validate:"omitempty,oneof=allow_external require_proposed"`

	// RunTimeout bounds one observation end to end.
	RunTimeout time.Duration `mapstructure:"run_timeout" yaml:"run_timeout" json:"run_timeout" validate:"min=0"`

	// IndexTimeout bounds the semantic index update of one run.
	IndexTimeout time.Duration `mapstructure:"index_timeout" yaml:"index_timeout" json:"index_timeout" validate:"min=0"`

	// Concurrency is the default number of observations processed at once
	// by batch commands.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency" validate:"min=1,max=64"`
}

// Referential returns the validator policy named by ReferentialPolicy.
func (p PipelineConfig) Referential() agents.ReferentialPolicy {
	if p.ReferentialPolicy == ReferentialRequireProposed {
		return agents.RequireOneProposedEndpoint
	}
	return agents.AllowExternalEndpoints
}
