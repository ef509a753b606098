package events

import "time"

// EventType identifies the kind of pipeline event.
type EventType string

const (
	// EventRunStarted is published once a run has an id.
	EventRunStarted EventType = "run.started"

	// EventStageCompleted is published after every recorded stage, whatever
	// its status.
	EventStageCompleted EventType = "stage.completed"

	// EventRunCompleted is published when a run reaches FINALIZE.
	EventRunCompleted EventType = "run.completed"

	// EventRunRejected is published when validation declines a proposal.
	EventRunRejected EventType = "run.rejected"

	// EventRunFailed is published when a stage-fatal error ends a run.
	EventRunFailed EventType = "run.failed"

	// EventMetricsReset is published after an administrative reset.
	EventMetricsReset EventType = "metrics.reset"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// IsTerminal reports whether the event ends a run.
func (t EventType) IsTerminal() bool {
	return t == EventRunCompleted || t == EventRunRejected || t == EventRunFailed
}

// Event is one pipeline lifecycle notification.
type Event struct {
	// Type identifies the category and nature of the event
	Type EventType `json:"type"`

	// Timestamp records when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// RunID associates the event with a pipeline run (empty for system events)
	RunID string `json:"run_id,omitempty"`

	// Agent names the stage that emitted the event (empty for run events)
	Agent string `json:"agent,omitempty"`

	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`

	// Payload contains event-specific typed data (use type assertion to access)
	Payload any `json:"payload,omitempty"`
}

// Filter defines criteria for filtering events in subscriptions.
// All filter fields use AND logic; empty fields match everything.
type Filter struct {
	Types []EventType `json:"types,omitempty"`
	RunID string      `json:"run_id,omitempty"`
	Agent string      `json:"agent,omitempty"`
}

// Matches reports whether event satisfies every non-empty criterion of f.
func (f *Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if event.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.RunID != "" && event.RunID != f.RunID {
		return false
	}
	if f.Agent != "" && event.Agent != f.Agent {
		return false
	}
	return true
}

// RunStartedPayload contains data for run.started events.
type RunStartedPayload struct {
	Fingerprint string `json:"fingerprint"`
}

// StagePayload contains data for stage.completed events.
type StagePayload struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// RunFinishedPayload contains data for the terminal run events.
type RunFinishedPayload struct {
	State   string        `json:"state"`
	Success bool          `json:"success"`
	Latency time.Duration `json:"latency"`
	Reason  string        `json:"reason,omitempty"`
	Error   string        `json:"error,omitempty"`
}
