package graph

import "github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"

// Graph database error codes
const (
	// Connection errors
	ErrCodeGraphConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionLost   types.ErrorCode = "GRAPH_CONNECTION_LOST"
	ErrCodeGraphConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"

	// Configuration errors
	ErrCodeGraphInvalidConfig types.ErrorCode = "GRAPH_INVALID_CONFIG"

	// Query errors
	ErrCodeGraphQueryFailed  types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeGraphQueryTimeout types.ErrorCode = "GRAPH_QUERY_TIMEOUT"
	ErrCodeGraphWriteFailed  types.ErrorCode = "GRAPH_WRITE_FAILED"
)

// IsUnavailable reports whether err means the database cannot be reached
// at all, as opposed to a single statement failing.
func IsUnavailable(err error) bool {
	return types.HasCode(err, ErrCodeGraphConnectionLost) ||
		types.HasCode(err, ErrCodeGraphConnectionClosed) ||
		types.HasCode(err, ErrCodeGraphConnectionFailed)
}
