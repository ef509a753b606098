package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

func validConfig() GraphClientConfig {
	cfg := DefaultConfig()
	cfg.Password = "password"
	return cfg
}

func TestGraphClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GraphClientConfig)
		ok     bool
	}{
		{"valid", func(*GraphClientConfig) {}, true},
		{"empty uri", func(c *GraphClientConfig) { c.URI = "" }, false},
		{"empty username", func(c *GraphClientConfig) { c.Username = "" }, false},
		{"empty password", func(c *GraphClientConfig) { c.Password = "" }, false},
		{"zero timeout", func(c *GraphClientConfig) { c.ConnectionTimeout = 0 }, false},
		{"zero retry time", func(c *GraphClientConfig) { c.MaxTransactionRetryTime = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.HasCode(err, ErrCodeGraphInvalidConfig))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "bolt://localhost:7687", cfg.URI)
	assert.Equal(t, "neo4j", cfg.Username)
	assert.Equal(t, 5, cfg.ConnectAttempts)
	assert.Empty(t, cfg.Password)
}

func TestNewNeo4jClient(t *testing.T) {
	_, err := NewNeo4jClient(DefaultConfig())
	require.Error(t, err, "password is required")

	client, err := NewNeo4jClient(validConfig())
	require.NoError(t, err)
	assert.True(t, client.Health(context.Background()).IsUnhealthy(), "not connected yet")

	_, err = client.Query(context.Background(), "RETURN 1", nil)
	assert.True(t, types.HasCode(err, ErrCodeGraphConnectionClosed))
	assert.True(t, IsUnavailable(err))
	assert.NoError(t, client.Close(context.Background()))
}

func TestClassifyDriverError(t *testing.T) {
	ctx := context.Background()
	plain := errors.New("Neo.ClientError.Statement.SyntaxError")

	err := classifyDriverError(ctx, ErrCodeGraphWriteFailed, plain)
	assert.True(t, types.HasCode(err, ErrCodeGraphWriteFailed))
	assert.False(t, IsUnavailable(err))
	assert.ErrorIs(t, err, plain)

	err = classifyDriverError(ctx, ErrCodeGraphQueryFailed, context.DeadlineExceeded)
	assert.True(t, types.HasCode(err, ErrCodeGraphQueryTimeout))
}

func TestQueryResult_First(t *testing.T) {
	assert.Nil(t, QueryResult{}.First())
	r := QueryResult{Records: []map[string]any{{"n": int64(1)}, {"n": int64(2)}}}
	assert.Equal(t, int64(1), r.First()["n"])
}

func TestMockGraphClient_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMockGraphClient()

	assert.True(t, m.Health(ctx).IsUnhealthy())
	_, err := m.Query(ctx, "RETURN 1", nil)
	assert.True(t, IsUnavailable(err))

	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.IsConnected())
	assert.True(t, m.Health(ctx).IsHealthy())

	m.SetHealthStatus(types.Degraded("slow"))
	assert.True(t, m.Health(ctx).IsDegraded())

	require.NoError(t, m.Close(ctx))
	assert.False(t, m.IsConnected())
}

func TestMockGraphClient_ConnectError(t *testing.T) {
	m := NewMockGraphClient()
	m.SetConnectError(errors.New("refused"))
	assert.Error(t, m.Connect(context.Background()))
	assert.False(t, m.IsConnected())
}

func TestMockGraphClient_QueueAndHandler(t *testing.T) {
	ctx := context.Background()
	m := NewMockGraphClient()
	require.NoError(t, m.Connect(ctx))

	m.AddQueryResult(QueryResult{Records: []map[string]any{{"n": int64(3)}}})
	res, err := m.Query(ctx, "MATCH (n) RETURN count(n) AS n", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.First()["n"])

	res, err = m.Query(ctx, "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	m.SetHandler(func(cypher string, params map[string]any) (QueryResult, error) {
		return QueryResult{Records: []map[string]any{{"id": params["id"]}}}, nil
	})
	res, err = m.Execute(ctx, "MERGE (e:Entity {id: $id})", map[string]any{"id": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", res.First()["id"])

	execs := m.GetCallsByMethod("Execute")
	require.Len(t, execs, 1)
	assert.Contains(t, execs[0].Cypher, "MERGE")
	assert.Equal(t, "x", execs[0].Params["id"])
}

func TestMockGraphClient_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMockGraphClient()
	require.NoError(t, m.Connect(ctx))

	m.SetExecuteError(types.NewError(ErrCodeGraphConnectionLost, "gone"))
	_, err := m.Execute(ctx, "CREATE ()", nil)
	assert.True(t, IsUnavailable(err))

	_, err = m.Query(ctx, "RETURN 1", nil)
	assert.NoError(t, err, "query error is independent")

	m.SetQueryError(errors.New("bad"))
	_, err = m.Query(ctx, "RETURN 1", nil)
	assert.Error(t, err)

	assert.GreaterOrEqual(t, m.CallCount(), 4)
}

func TestNeo4jClient_ConnectFailsFast(t *testing.T) {
	cfg := validConfig()
	cfg.URI = "bolt://127.0.0.1:1"
	cfg.ConnectAttempts = 1
	cfg.ConnectionTimeout = time.Second

	client, err := NewNeo4jClient(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrCodeGraphConnectionFailed))
}
