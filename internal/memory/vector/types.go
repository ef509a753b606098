package vector

import (
	"fmt"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// VectorRecord is one embedded document.
type VectorRecord struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewVectorRecord creates a record stamped with the current time.
func NewVectorRecord(id, content string, embedding []float64, metadata map[string]any) VectorRecord {
	return VectorRecord{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
		UpdatedAt: time.Now().UTC(),
	}
}

// Validate ensures the record has an ID, content and an embedding.
func (r *VectorRecord) Validate() error {
	if r.ID == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record ID cannot be empty")
	}
	if r.Content == "" {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record content cannot be empty")
	}
	if len(r.Embedding) == 0 {
		return types.NewError(ErrCodeVectorStoreFailed, "vector record embedding cannot be empty")
	}
	return nil
}

// VectorQuery is a nearest-neighbour query over pre-computed embeddings.
type VectorQuery struct {
	Embedding []float64      `json:"embedding"`
	TopK      int            `json:"top_k"`
	Filters   map[string]any `json:"filters,omitempty"`
	MinScore  float64        `json:"min_score,omitempty"`
}

// Validate checks TopK and MinScore bounds.
func (q *VectorQuery) Validate() error {
	if len(q.Embedding) == 0 {
		return types.NewError(ErrCodeVectorSearchFailed, "vector query must have an embedding")
	}
	if q.TopK <= 0 {
		return types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("vector query top_k must be greater than 0, got %d", q.TopK))
	}
	if q.MinScore < -1 || q.MinScore > 1 {
		return types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("vector query min_score must be between -1 and 1, got %f", q.MinScore))
	}
	return nil
}

// VectorResult pairs a record with its cosine similarity to the query.
type VectorResult struct {
	Record VectorRecord `json:"record"`
	Score  float64      `json:"score"`
}
