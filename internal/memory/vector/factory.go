package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/embedder"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Supported backends.
const (
	BackendEmbedded = "embedded"
	BackendSQLite   = "sqlite"
	BackendNone     = "none"
)

// VectorStoreConfig holds configuration for creating a vector store.
type VectorStoreConfig struct {
	Backend     string `mapstructure:"backend" yaml:"backend" json:"backend" validate:"omitempty,oneof=embedded sqlite none"`
	StoragePath string `mapstructure:"storage_path" yaml:"storage_path" json:"storage_path"`
	TableName   string `mapstructure:"table_name" yaml:"table_name" json:"table_name,omitempty"`
	// Dimensions of zero takes the embedder's width.
	Dimensions int `mapstructure:"dimensions" yaml:"dimensions" json:"dimensions" validate:"gte=0"`
}

// DefaultVectorStoreConfig returns the in-memory configuration.
func DefaultVectorStoreConfig() VectorStoreConfig {
	return VectorStoreConfig{Backend: BackendEmbedded}
}

// NewVectorStore creates the store selected by cfg.Backend.
func NewVectorStore(cfg VectorStoreConfig) (VectorStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dimensions))
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendEmbedded, "":
		return NewEmbeddedVectorStore(cfg.Dimensions), nil

	case BackendSQLite:
		if cfg.StoragePath == "" {
			return nil, types.NewError(ErrCodeInvalidConfig, "storage_path is required for sqlite backend")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
			return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to create storage directory", err)
		}
		return NewSqliteVecStore(SqliteVecConfig{
			DBPath:    cfg.StoragePath,
			TableName: cfg.TableName,
			Dims:      cfg.Dimensions,
		})
	}
	return nil, types.NewError(ErrCodeInvalidConfig,
		fmt.Sprintf("unknown backend '%s', must be one of: embedded, sqlite, none", cfg.Backend))
}

// Open builds the SemanticIndex for cfg. The "none" backend yields a
// DisabledIndex and never touches the embedder.
func Open(ctx context.Context, cfg VectorStoreConfig, emb embedder.Embedder, tp trace.TracerProvider) (SemanticIndex, error) {
	backend := strings.ToLower(cfg.Backend)
	if backend == BackendNone {
		return DisabledIndex{}, nil
	}
	if emb == nil {
		return nil, types.NewError(ErrCodeInvalidConfig, "an embedder is required for the semantic index")
	}

	if cfg.Dimensions == 0 {
		cfg.Dimensions = emb.Dimensions()
	}
	if cfg.Dimensions != emb.Dimensions() {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("vector dimensions %d do not match embedder %s (%d)",
				cfg.Dimensions, emb.Model(), emb.Dimensions()))
	}

	store, err := NewVectorStore(cfg)
	if err != nil {
		return nil, err
	}
	if backend == "" {
		backend = BackendEmbedded
	}
	return NewEmbeddingIndex(emb, store, backend, tp), nil
}
