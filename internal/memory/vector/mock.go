package vector

import (
	"context"
	"maps"
	"sync"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// UpsertCall is a recorded MockIndex.Upsert.
type UpsertCall struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// MockIndex is a SemanticIndex that records writes. Search answers with
// whatever SetSearchHits configured.
type MockIndex struct {
	mu          sync.Mutex
	upserts     []UpsertCall
	failIDs     map[string]error
	upsertError error
	searchError error
	hits        []SearchHit
	health      types.HealthStatus
}

// NewMockIndex creates an empty mock index.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		failIDs: make(map[string]error),
		health:  types.Healthy("mock index"),
	}
}

func (m *MockIndex) Upsert(ctx context.Context, id, text string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upserts = append(m.upserts, UpsertCall{ID: id, Text: text, Metadata: maps.Clone(metadata)})
	if err, ok := m.failIDs[id]; ok {
		return err
	}
	return m.upsertError
}

func (m *MockIndex) Search(ctx context.Context, text string, topK int) ([]SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.searchError != nil {
		return nil, m.searchError
	}
	if len(m.hits) > topK {
		return append([]SearchHit(nil), m.hits[:topK]...), nil
	}
	return append([]SearchHit(nil), m.hits...), nil
}

func (m *MockIndex) Health(context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.health
}

func (m *MockIndex) Close() error { return nil }

// FailUpsert makes Upsert of id return err.
func (m *MockIndex) FailUpsert(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failIDs[id] = err
}

// SetUpsertError makes every Upsert return err.
func (m *MockIndex) SetUpsertError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertError = err
}

// SetSearchError makes Search return err.
func (m *MockIndex) SetSearchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchError = err
}

// SetSearchHits configures Search results.
func (m *MockIndex) SetSearchHits(hits []SearchHit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits = hits
}

// SetHealthStatus configures what Health returns.
func (m *MockIndex) SetHealthStatus(h types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health = h
}

// Upserts returns a copy of the recorded writes.
func (m *MockIndex) Upserts() []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpsertCall(nil), m.upserts...)
}
