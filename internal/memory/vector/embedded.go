package vector

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// EmbeddedVectorStore keeps records in memory and searches by brute force.
// It does not survive a restart.
type EmbeddedVectorStore struct {
	mu      sync.RWMutex
	records map[string]VectorRecord
	dims    int
	closed  bool
}

// NewEmbeddedVectorStore creates an in-memory store for dims-wide vectors.
func NewEmbeddedVectorStore(dims int) *EmbeddedVectorStore {
	return &EmbeddedVectorStore{
		records: make(map[string]VectorRecord),
		dims:    dims,
	}
}

func (s *EmbeddedVectorStore) Store(ctx context.Context, record VectorRecord) error {
	if err := checkRecord(record, s.dims); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}

	record.Embedding = append([]float64(nil), record.Embedding...)
	record.Metadata = maps.Clone(record.Metadata)
	s.records[record.ID] = record
	return nil
}

func (s *EmbeddedVectorStore) Search(ctx context.Context, query VectorQuery) ([]VectorResult, error) {
	if err := checkQuery(query, s.dims); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed()
	}

	results := make([]VectorResult, 0, len(s.records))
	for _, record := range s.records {
		if r, ok := score(query, record); ok {
			results = append(results, r)
		}
	}
	return rankResults(results, query.TopK), nil
}

func (s *EmbeddedVectorStore) Get(ctx context.Context, id string) (*VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed()
	}

	record, ok := s.records[id]
	if !ok {
		return nil, types.NewError(ErrCodeVectorNotFound, fmt.Sprintf("vector record not found: %s", id))
	}
	return &record, nil
}

func (s *EmbeddedVectorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}
	delete(s.records, id)
	return nil
}

func (s *EmbeddedVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errClosed()
	}
	return len(s.records), nil
}

func (s *EmbeddedVectorStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.Unhealthy("embedded vector store is closed")
	}
	return types.Healthy(fmt.Sprintf("embedded vector store operational with %d records (dims: %d)",
		len(s.records), s.dims))
}

func (s *EmbeddedVectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

func checkRecord(record VectorRecord, dims int) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != dims {
		return types.NewError(ErrCodeVectorStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", dims, len(record.Embedding)))
	}
	return nil
}

func checkQuery(query VectorQuery, dims int) error {
	if err := query.Validate(); err != nil {
		return err
	}
	if len(query.Embedding) != dims {
		return types.NewError(ErrCodeVectorSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d", dims, len(query.Embedding)))
	}
	return nil
}

func errClosed() error {
	return types.NewError(ErrCodeVectorStoreUnavailable, "vector store is closed")
}
