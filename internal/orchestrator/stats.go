package orchestrator

import (
	"sync"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/agents"
)

// SystemMetrics are the process-wide run counters.
type SystemMetrics struct {
	TotalOrchestrations int `json:"totalOrchestrations"`
	Successful          int `json:"successful"`
	// Failed counts every unsuccessful run, rejections included.
	Failed   int `json:"failed"`
	Rejected int `json:"rejected"`
	// SuccessRate is a percentage.
	SuccessRate       float64 `json:"successRate"`
	AvgTotalLatencyMS float64 `json:"avgTotalLatencyMs"`
}

// AgentsSnapshot merges each stage's own metrics with the latency the
// orchestrator measured around it.
type AgentsSnapshot struct {
	Proposer  agents.ProposerMetrics  `json:"proposer"`
	Validator agents.ValidatorMetrics `json:"validator"`
	Critic    agents.CriticMetrics    `json:"critic"`
	Applier   agents.ApplierMetrics   `json:"applier"`
	// StageLatencyMS is the mean latency per agent name, as traced.
	StageLatencyMS map[string]float64 `json:"stageLatencyMs"`
}

// Snapshot is a point-in-time copy of every pipeline counter.
type Snapshot struct {
	System SystemMetrics  `json:"system"`
	Agents AgentsSnapshot `json:"agents"`
}

type latencySamples struct {
	count int
	total time.Duration
}

// stats is shared by every run of one Orchestrator.
type stats struct {
	mu         sync.Mutex
	total      int
	successful int
	failed     int
	rejected   int
	avgLatency float64
	stages     map[string]*latencySamples
}

func newStats() *stats {
	return &stats{stages: make(map[string]*latencySamples)}
}

func (s *stats) recordStage(agent string, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	samples, ok := s.stages[agent]
	if !ok {
		samples = &latencySamples{}
		s.stages[agent] = samples
	}
	samples.count++
	samples.total += latency
}

func (s *stats) recordRun(state State, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	switch state {
	case StateFinalize:
		s.successful++
	case StateRejected:
		s.rejected++
		s.failed++
	default:
		s.failed++
	}
	s.avgLatency += (msec(latency) - s.avgLatency) / float64(s.total)
}

func (s *stats) system() SystemMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := SystemMetrics{
		TotalOrchestrations: s.total,
		Successful:          s.successful,
		Failed:              s.failed,
		Rejected:            s.rejected,
		AvgTotalLatencyMS:   s.avgLatency,
	}
	if s.total > 0 {
		m.SuccessRate = float64(s.successful) / float64(s.total) * 100
	}
	return m
}

func (s *stats) stageLatency() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.stages))
	for agent, samples := range s.stages {
		out[agent] = msec(samples.total) / float64(samples.count)
	}
	return out
}

func (s *stats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total, s.successful, s.failed, s.rejected = 0, 0, 0, 0
	s.avgLatency = 0
	s.stages = make(map[string]*latencySamples)
}

func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
