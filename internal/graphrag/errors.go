package graphrag

import (
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/graphrag/graph"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Knowledge store error codes.
const (
	ErrCodeInvalidEntity        types.ErrorCode = "STORE_INVALID_ENTITY"
	ErrCodeInvalidRelationship  types.ErrorCode = "STORE_INVALID_RELATIONSHIP"
	ErrCodeEndpointMissing      types.ErrorCode = "STORE_ENDPOINT_MISSING"
	ErrCodeUnsupportedBackend   types.ErrorCode = "STORE_UNSUPPORTED_BACKEND"
	ErrCodeOntologyInitFailed   types.ErrorCode = "STORE_ONTOLOGY_INIT_FAILED"
	ErrCodeUnexpectedResultType types.ErrorCode = "STORE_UNEXPECTED_RESULT"
)

// IsSystemic reports whether err means the store as a whole is unusable,
// rather than one write failing.
func IsSystemic(err error) bool {
	return graph.IsUnavailable(err)
}
