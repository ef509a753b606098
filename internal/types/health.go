package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// HealthState represents the health state of a pipeline collaborator.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

func (s HealthState) String() string {
	return string(s)
}

// IsValid checks if the HealthState is a known value.
func (s HealthState) IsValid() bool {
	switch s {
	case HealthStateHealthy, HealthStateDegraded, HealthStateUnhealthy:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects unknown states.
func (s *HealthState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	state := HealthState(str)
	if !state.IsValid() {
		return fmt.Errorf("invalid health state: %s", str)
	}
	*s = state
	return nil
}

// HealthStatus is the result of a collaborator health check.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// NewHealthStatus creates a HealthStatus stamped with the current time.
func NewHealthStatus(state HealthState, message string) HealthStatus {
	return HealthStatus{State: state, Message: message, CheckedAt: time.Now()}
}

func Healthy(message string) HealthStatus   { return NewHealthStatus(HealthStateHealthy, message) }
func Degraded(message string) HealthStatus  { return NewHealthStatus(HealthStateDegraded, message) }
func Unhealthy(message string) HealthStatus { return NewHealthStatus(HealthStateUnhealthy, message) }

func (h HealthStatus) IsHealthy() bool   { return h.State == HealthStateHealthy }
func (h HealthStatus) IsDegraded() bool  { return h.State == HealthStateDegraded }
func (h HealthStatus) IsUnhealthy() bool { return h.State == HealthStateUnhealthy }

// CombineHealth folds named component statuses into one. The result takes the
// worst state seen; messages of non-healthy components are joined.
func CombineHealth(components map[string]HealthStatus) HealthStatus {
	worst := HealthStateHealthy
	var problems []string
	for name, h := range components {
		switch h.State {
		case HealthStateUnhealthy:
			worst = HealthStateUnhealthy
		case HealthStateDegraded:
			if worst == HealthStateHealthy {
				worst = HealthStateDegraded
			}
		default:
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", name, h.Message))
	}
	if len(problems) == 0 {
		return Healthy("all components healthy")
	}
	slices.Sort(problems)
	return NewHealthStatus(worst, strings.Join(problems, "; "))
}
