package embedder

import "github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"

// Embedder error codes
const (
	ErrCodeEmbedderUnavailable  types.ErrorCode = "EMBEDDER_UNAVAILABLE"
	ErrCodeEmbeddingFailed      types.ErrorCode = "EMBEDDING_FAILED"
	ErrCodeEmbeddingBatchFailed types.ErrorCode = "EMBEDDING_BATCH_FAILED"
	ErrCodeDimensionMismatch    types.ErrorCode = "EMBEDDING_DIMENSION_MISMATCH"
	ErrCodeInvalidConfig        types.ErrorCode = "INVALID_EMBEDDER_CONFIG"
)
