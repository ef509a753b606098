package orchestrator

import (
	"fmt"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
)

// StepRecord is the trace entry for one executed stage.
type StepRecord struct {
	Agent     string        `json:"agent"`
	Status    StepStatus    `json:"status"`
	Latency   time.Duration `json:"latency"`
	Output    any           `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ProposerOutput summarizes a proposal in the trace.
type ProposerOutput struct {
	Entities      int                 `json:"entities"`
	Relationships int                 `json:"relationships"`
	Complexity    ontology.Complexity `json:"complexity"`
	CacheHit      bool                `json:"cacheHit"`
}

// ValidatorOutput is the validation verdict as traced.
type ValidatorOutput struct {
	IsValid    bool                           `json:"isValid"`
	Dimensions *ontology.ValidationDimensions `json:"dimensions,omitempty"`
	Reason     string                         `json:"reason,omitempty"`
}

// CriticOutput is the critique summary as traced.
type CriticOutput struct {
	QualityScore ontology.Score              `json:"qualityScore"`
	Dimensions   ontology.CritiqueDimensions `json:"dimensions"`
}

// RunMetrics are the timings of a single run.
type RunMetrics struct {
	TotalLatency time.Duration `json:"totalLatency"`
	// AgentBreakdown maps each recorded stage to its latency in ms.
	AgentBreakdown map[string]float64 `json:"agentBreakdown"`
	// Throughput is 1000 divided by the total latency in ms, in observations per second.
	Throughput float64 `json:"throughput"`
}

// ThroughputString formats Throughput the way it is reported to humans.
func (m RunMetrics) ThroughputString() string {
	return fmt.Sprintf("%.2f obs/sec", m.Throughput)
}

// RunResult is everything a caller learns about one run.
type RunResult struct {
	RunID       string `json:"runId"`
	Observation string `json:"observation"`
	Success     bool   `json:"success"`
	State       State  `json:"state"`

	// Reason is the validator's rejection reason for REJECTED runs.
	Reason string `json:"reason,omitempty"`
	// Error is the stage-fatal error text for FAILED runs.
	Error string `json:"error,omitempty"`

	Trace    []StepRecord        `json:"trace"`
	Critique *ontology.Critique  `json:"critique,omitempty"`
	Changes  *agents.ApplyResult `json:"changes,omitempty"`
	Index    *agents.IndexReport `json:"index,omitempty"`
	Run      RunMetrics          `json:"pipelineMetrics"`
	Metrics  Snapshot            `json:"metrics"`
}

// Step returns the trace entry of agent, if recorded.
func (r *RunResult) Step(agent string) (StepRecord, bool) {
	for _, s := range r.Trace {
		if s.Agent == agent {
			return s, true
		}
	}
	return StepRecord{}, false
}

// Agents returns the agents in trace order.
func (r *RunResult) Agents() []string {
	out := make([]string, len(r.Trace))
	for i, s := range r.Trace {
		out[i] = s.Agent
	}
	return out
}

// String returns a human-readable representation of the run result.
func (r *RunResult) String() string {
	return fmt.Sprintf(
		"RunResult{ID: %s, State: %s, Success: %t, Steps: %d, Latency: %s}",
		r.RunID,
		r.State,
		r.Success,
		len(r.Trace),
		r.Run.TotalLatency,
	)
}
