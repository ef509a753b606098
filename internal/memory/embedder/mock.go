package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// MockDimensions is the default width of mock vectors.
const MockDimensions = 64

// MockCall represents a recorded method call on the mock embedder.
type MockCall struct {
	Method    string
	Texts     []string
	Timestamp time.Time
}

// MockEmbedder derives vectors from a SHA-256 of the text, so equal text
// always embeds to the same unit vector. Used by tests and offline runs.
type MockEmbedder struct {
	mu           sync.RWMutex
	dimensions   int
	model        string
	calls        []MockCall
	embedError   error
	batchError   error
	healthStatus types.HealthStatus
}

// NewMockEmbedder creates a new mock embedder.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		dimensions:   MockDimensions,
		model:        "mock-embedder",
		healthStatus: types.Healthy("mock embedder"),
	}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Embed", text)
	if m.embedError != nil {
		return nil, m.embedError
	}
	if err := ctx.Err(); err != nil {
		return nil, types.WrapError(ErrCodeEmbeddingFailed, "embedding canceled", err)
	}
	return hashVector(text, m.dimensions), nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("EmbedBatch", texts...)
	if m.batchError != nil {
		return nil, m.batchError
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text, m.dimensions)
	}
	return out, nil
}

func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

func (m *MockEmbedder) Model() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Health")
	return m.healthStatus
}

// SetDimensions changes the vector width.
func (m *MockEmbedder) SetDimensions(dims int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dims
}

// SetModel changes the reported model name.
func (m *MockEmbedder) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

// SetEmbedError makes Embed fail with err.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedError = err
}

// SetBatchError makes EmbedBatch fail with err.
func (m *MockEmbedder) SetBatchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchError = err
}

// SetHealthStatus configures what Health returns.
func (m *MockEmbedder) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// GetCalls returns a copy of all recorded calls.
func (m *MockEmbedder) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns the total number of recorded calls.
func (m *MockEmbedder) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

func (m *MockEmbedder) record(method string, texts ...string) {
	m.calls = append(m.calls, MockCall{Method: method, Texts: texts, Timestamp: time.Now()})
}

// hashVector seeds a PRNG with the text hash and normalizes the draw.
func hashVector(text string, dims int) []float64 {
	sum := sha256.Sum256([]byte(text))
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))

	v := make([]float64, dims)
	var norm float64
	for i := range v {
		v[i] = rng.Float64()*2 - 1
		norm += v[i] * v[i]
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}
