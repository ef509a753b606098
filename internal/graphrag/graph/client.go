package graph

import (
	"context"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// GraphClient provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access.
type GraphClient interface {
	// Connect establishes a connection to the graph database.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	Close(ctx context.Context) error

	// Health returns the current health status of the connection.
	Health(ctx context.Context) types.HealthStatus

	// Query runs a read-only Cypher statement.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// Execute runs a Cypher statement in a write transaction.
	Execute(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// QueryResult represents the result of a Cypher query execution.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// First returns the first record, or nil for an empty result.
func (r QueryResult) First() map[string]any {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	ExecutionTime        time.Duration
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
	LabelsAdded          int
	ConstraintsAdded     int
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI. bolt://, bolt+s://, neo4j:// and neo4j+s://
	// are accepted; encryption follows the scheme.
	URI string `mapstructure:"uri" yaml:"uri"`

	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`

	// Database name to connect to. Empty uses the server default.
	Database string `mapstructure:"database" yaml:"database,omitempty"`

	// MaxConnectionPoolSize limits the number of pooled connections.
	// Zero or negative values use the driver default.
	MaxConnectionPoolSize int `mapstructure:"max_pool_size" yaml:"max_pool_size"`

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout"`

	// MaxTransactionRetryTime bounds the driver's own transaction retries.
	MaxTransactionRetryTime time.Duration `mapstructure:"max_retry_time" yaml:"max_retry_time"`

	// ConnectAttempts is how many times Connect tries before giving up.
	ConnectAttempts int `mapstructure:"connect_attempts" yaml:"connect_attempts"`
}

// DefaultConfig returns a GraphClientConfig for a local Neo4j.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
		ConnectAttempts:         5,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Password cannot be empty")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.MaxTransactionRetryTime <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "MaxTransactionRetryTime must be positive")
	}
	return nil
}
