package orchestrator

// State is a position in the run state machine. A run only moves forward:
//
//	START → PROPOSE → VALIDATE → (CRITIQUE) → APPLY → INDEX_UPDATE → FINALIZE
//
// with the early terminals REJECTED (from VALIDATE) and FAILED.
type State string

const (
	StateStart       State = "START"
	StatePropose     State = "PROPOSE"
	StateValidate    State = "VALIDATE"
	StateCritique    State = "CRITIQUE"
	StateApply       State = "APPLY"
	StateIndexUpdate State = "INDEX_UPDATE"
	StateFinalize    State = "FINALIZE"
	StateRejected    State = "REJECTED"
	StateFailed      State = "FAILED"
)

// String returns the string representation of State.
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether a run in state s has ended.
func (s State) IsTerminal() bool {
	return s == StateFinalize || s == StateRejected || s == StateFailed
}

// StepStatus is the outcome of one recorded stage.
type StepStatus string

const (
	StepSuccess  StepStatus = "success"
	StepRejected StepStatus = "rejected"
	StepFailed   StepStatus = "failed"
	// StepWarning marks a best-effort stage that degraded.
	StepWarning StepStatus = "warning"
)

func (s StepStatus) String() string {
	return string(s)
}
