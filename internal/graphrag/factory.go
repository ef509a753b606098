package graphrag

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag/graph"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Backend names accepted in configuration.
const (
	BackendNeo4j  = "neo4j"
	BackendMemory = "memory"
)

// Config selects and configures the knowledge store backend.
type Config struct {
	Backend string `mapstructure:"backend" yaml:"backend" validate:"required,oneof=neo4j memory"`

	graph.GraphClientConfig `mapstructure:",squash" yaml:",inline"`
}

// DefaultConfig targets a local Neo4j.
func DefaultConfig() Config {
	return Config{Backend: BackendNeo4j, GraphClientConfig: graph.DefaultConfig()}
}

// Open connects the configured backend and wraps it with tracing.
func Open(ctx context.Context, cfg Config, logger *observability.TracedLogger, tp trace.TracerProvider) (KnowledgeStore, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}

	switch cfg.Backend {
	case BackendMemory:
		logger.Warn(ctx, "using in-memory knowledge store, data is lost on exit")
		return NewTracedStore(NewMemoryStore(), tp, BackendMemory), nil

	case BackendNeo4j, "":
		client, err := graph.NewNeo4jClient(cfg.GraphClientConfig)
		if err != nil {
			return nil, err
		}
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		logger.Info(ctx, "connected to knowledge store", "uri", cfg.URI, "database", cfg.Database)
		return NewTracedStore(NewGraphStore(client, WithStoreLogger(logger)), tp, BackendNeo4j), nil

	default:
		return nil, types.NewError(ErrCodeUnsupportedBackend, fmt.Sprintf("unsupported graph backend '%s'", cfg.Backend))
	}
}
