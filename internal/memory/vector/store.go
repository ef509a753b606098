package vector

import (
	"context"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// VectorStore persists embeddings and answers nearest-neighbour queries.
// Implementations must be thread-safe for concurrent access.
type VectorStore interface {
	// Store inserts the record or replaces the one with the same ID.
	Store(ctx context.Context, record VectorRecord) error

	// Search returns the closest records by cosine similarity.
	Search(ctx context.Context, query VectorQuery) ([]VectorResult, error)

	// Get retrieves a specific record by ID.
	Get(ctx context.Context, id string) (*VectorRecord, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Health(ctx context.Context) types.HealthStatus

	Close() error
}
