// Package contextkeys provides shared context key definitions used across ontograph packages.
// This package exists to avoid circular imports between packages that need to read/write
// context values (e.g., orchestrator and observability).
package contextkeys

import "context"

// Key is the type for all ontograph context keys.
type Key string

const (
	// RunID stores the identifier of the pipeline run a call belongs to.
	RunID Key = "ontograph.run_id"

	// Observation stores the fingerprint of the observation being processed.
	Observation Key = "ontograph.observation"
)

// WithRunID returns a new context with the run ID set.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunID, runID)
}

// GetRunID retrieves the run ID from context.
// Returns empty string if not set.
func GetRunID(ctx context.Context) string {
	if v, ok := ctx.Value(RunID).(string); ok {
		return v
	}
	return ""
}

// WithObservation returns a new context with the observation fingerprint set.
func WithObservation(ctx context.Context, fingerprint string) context.Context {
	return context.WithValue(ctx, Observation, fingerprint)
}

// GetObservation retrieves the observation fingerprint from context.
// Returns empty string if not set.
func GetObservation(ctx context.Context) string {
	if v, ok := ctx.Value(Observation).(string); ok {
		return v
	}
	return ""
}
