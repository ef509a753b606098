package graph

import (
	"context"
	"sync"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Cypher    string
	Params    map[string]any
	Timestamp time.Time
}

// QueryHandler computes a result for a statement. It lets tests route
// different statements to different answers.
type QueryHandler func(cypher string, params map[string]any) (QueryResult, error)

// MockGraphClient is a mock implementation of GraphClient for testing.
// Results come from the handler if set, otherwise from a FIFO queue, and
// otherwise are empty.
type MockGraphClient struct {
	mu sync.RWMutex

	connected    bool
	healthStatus types.HealthStatus
	calls        []MockCall

	handler      QueryHandler
	results      []QueryResult
	queryError   error
	executeError error
	connectError error
	closeError   error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		healthStatus: types.Healthy("mock graph client"),
	}
}

func (m *MockGraphClient) record(method, cypher string, params map[string]any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Cypher:    cypher,
		Params:    params,
		Timestamp: time.Now(),
	})
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Connect", "", nil)
	if m.connectError != nil {
		return m.connectError
	}
	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close", "", nil)
	if m.closeError != nil {
		return m.closeError
	}
	m.connected = false
	return nil
}

// Health returns the configured health status.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Health", "", nil)
	if !m.connected {
		return types.Unhealthy("not connected")
	}
	return m.healthStatus
}

// Query records the call and returns the next configured result.
func (m *MockGraphClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.answer("Query", cypher, params, m.queryError)
}

// Execute records the call and returns the next configured result.
func (m *MockGraphClient) Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.answer("Execute", cypher, params, m.executeError)
}

func (m *MockGraphClient) answer(method, cypher string, params map[string]any, injected error) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(method, cypher, params)

	if !m.connected {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}
	if injected != nil {
		return QueryResult{}, injected
	}
	if m.handler != nil {
		return m.handler(cypher, params)
	}
	if len(m.results) > 0 {
		result := m.results[0]
		m.results = m.results[1:]
		return result, nil
	}
	return QueryResult{Records: []map[string]any{}, Columns: []string{}}, nil
}

// SetHandler routes every Query and Execute through h.
func (m *MockGraphClient) SetHandler(h QueryHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

// AddQueryResult adds a single result to the queue.
func (m *MockGraphClient) AddQueryResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

// SetHealthStatus configures what Health() should return.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetConnectError configures Connect() to return an error.
func (m *MockGraphClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetCloseError configures Close() to return an error.
func (m *MockGraphClient) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeError = err
}

// SetQueryError configures Query() to return an error.
func (m *MockGraphClient) SetQueryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
}

// SetExecuteError configures Execute() to return an error.
func (m *MockGraphClient) SetExecuteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executeError = err
}

// GetCalls returns all recorded method calls.
func (m *MockGraphClient) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockCall(nil), m.calls...)
}

// GetCallsByMethod returns all calls to a specific method.
func (m *MockGraphClient) GetCallsByMethod(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns the total number of method calls.
func (m *MockGraphClient) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// IsConnected returns whether the mock is in connected state.
func (m *MockGraphClient) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Ensure MockGraphClient implements GraphClient
var _ GraphClient = (*MockGraphClient)(nil)
var _ GraphClient = (*Neo4jClient)(nil)
