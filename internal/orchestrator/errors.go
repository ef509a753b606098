package orchestrator

import "github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"

const (
	// ErrCodeEmptyObservation rejects blank input before any stage runs.
	ErrCodeEmptyObservation types.ErrorCode = "ORCHESTRATOR_EMPTY_OBSERVATION"
	// ErrCodeMissingStage is returned by New when a required stage is nil.
	ErrCodeMissingStage types.ErrorCode = "ORCHESTRATOR_MISSING_STAGE"
)
