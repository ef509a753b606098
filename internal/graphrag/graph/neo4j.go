package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Neo4jClient implements GraphClient for Neo4j graph databases.
type Neo4jClient struct {
	config GraphClientConfig

	mu     sync.RWMutex
	driver neo4j.DriverWithContext
}

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ConnectAttempts <= 0 {
		config.ConnectAttempts = 1
	}
	return &Neo4jClient{config: config}, nil
}

// Connect establishes a connection to the Neo4j database, retrying with
// exponential backoff.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")
	driverConfig := func(config *neo4j.Config) {
		if c.config.MaxConnectionPoolSize > 0 {
			config.MaxConnectionPoolSize = c.config.MaxConnectionPoolSize
		}
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
		config.MaxTransactionRetryTime = c.config.MaxTransactionRetryTime
	}

	var lastErr error
	baseDelay := 100 * time.Millisecond

	for attempt := 0; attempt < c.config.ConnectAttempts; attempt++ {
		driver, err := neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
		if err == nil {
			err = driver.VerifyConnectivity(ctx)
			if err == nil {
				c.mu.Lock()
				c.driver = driver
				c.mu.Unlock()
				return nil
			}
			_ = driver.Close(ctx)
		}
		lastErr = err

		if attempt == c.config.ConnectAttempts-1 {
			break
		}

		delay := baseDelay << attempt
		if delay > c.config.ConnectionTimeout {
			delay = c.config.ConnectionTimeout
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("failed to connect to %s after %d attempts", c.config.URI, c.config.ConnectAttempts), lastErr)
}

// Close releases all resources and closes the database connection.
func (c *Neo4jClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driver == nil {
		return nil
	}
	if err := c.driver.Close(ctx); err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed, "failed to close driver", err)
	}
	c.driver = nil
	return nil
}

// Health returns the current health status of the Neo4j connection.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	driver := c.current()
	if driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}
	return types.Healthy("connected to Neo4j")
}

// Query runs cypher in a read transaction.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, neo4j.AccessModeRead, cypher, params)
}

// Execute runs cypher in a write transaction.
func (c *Neo4jClient) Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.run(ctx, neo4j.AccessModeWrite, cypher, params)
}

func (c *Neo4jClient) current() neo4j.DriverWithContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.driver
}

func (c *Neo4jClient) run(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (QueryResult, error) {
	driver := c.current()
	if driver == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "driver not connected")
	}

	startTime := time.Now()
	session := driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
		AccessMode:   mode,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := neoResult.Collect(ctx)
		if err != nil {
			return nil, err
		}
		summary, err := neoResult.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return convertNeo4jResult(records, summary), nil
	}

	var (
		result any
		err    error
	)
	if mode == neo4j.AccessModeWrite {
		result, err = session.ExecuteWrite(ctx, work)
	} else {
		result, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		code := ErrCodeGraphQueryFailed
		if mode == neo4j.AccessModeWrite {
			code = ErrCodeGraphWriteFailed
		}
		return QueryResult{}, classifyDriverError(ctx, code, err)
	}

	queryResult := result.(QueryResult)
	queryResult.Summary.ExecutionTime = time.Since(startTime)
	return queryResult, nil
}

// classifyDriverError separates an unreachable database from a failing
// statement so callers can tell systemic failures apart.
func classifyDriverError(ctx context.Context, code types.ErrorCode, err error) error {
	switch {
	case neo4j.IsConnectivityError(err):
		return &types.OntologyError{
			Code:      ErrCodeGraphConnectionLost,
			Message:   "lost connection to graph database",
			Retryable: true,
			Cause:     err,
		}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return types.WrapError(ErrCodeGraphQueryTimeout, "graph statement timed out", err)
	default:
		return types.WrapError(code, "graph statement failed", err)
	}
}

// convertNeo4jResult converts Neo4j records and summary to QueryResult.
func convertNeo4jResult(records []*neo4j.Record, summary neo4j.ResultSummary) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: []string{},
	}
	if len(records) > 0 {
		result.Columns = records[0].Keys
	}
	for _, record := range records {
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		result.Records = append(result.Records, row)
	}

	if summary != nil && summary.Counters() != nil {
		counters := summary.Counters()
		result.Summary = QuerySummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
			LabelsAdded:          counters.LabelsAdded(),
			ConstraintsAdded:     counters.ConstraintsAdded(),
		}
	}
	return result
}
