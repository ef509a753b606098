package agents

import "github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"

// Pipeline stage error codes.
const (
	ErrCodeEmptyProposal            types.ErrorCode = "PIPELINE_EMPTY_PROPOSAL"
	ErrCodeProposerFailed           types.ErrorCode = "PIPELINE_PROPOSER_FAILED"
	ErrCodeValidatorSystemError     types.ErrorCode = "PIPELINE_VALIDATOR_SYSTEM_ERROR"
	ErrCodeApplierSystemicFailure   types.ErrorCode = "PIPELINE_APPLIER_SYSTEMIC_FAILURE"
	ErrCodeCriticContextUnavailable types.ErrorCode = "PIPELINE_CRITIC_CONTEXT_UNAVAILABLE"
	ErrCodeEmptyQuestion            types.ErrorCode = "PIPELINE_EMPTY_QUESTION"
	ErrCodeAnswerFailed             types.ErrorCode = "PIPELINE_ANSWER_FAILED"
)
