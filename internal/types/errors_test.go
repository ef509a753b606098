package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOntologyError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OntologyError
		want string
	}{
		{
			name: "without cause",
			err:  NewError(CONFIG_NOT_FOUND, "config missing"),
			want: "[CONFIG_NOT_FOUND] config missing",
		},
		{
			name: "with cause",
			err:  WrapError(STORE_QUERY_FAILED, "query failed", errors.New("boom")),
			want: "[STORE_QUERY_FAILED] query failed: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestOntologyError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", WrapError(STORE_CONNECTION_LOST, "lost", errors.New("eof")))

	assert.True(t, errors.Is(err, NewError(STORE_CONNECTION_LOST, "")))
	assert.False(t, errors.Is(err, NewError(STORE_QUERY_FAILED, "")))
}

func TestOntologyError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(INIT_STORE_FAILED, "init", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(STORE_CONNECTION_LOST, "try again")
	assert.True(t, err.Retryable)
	assert.False(t, NewError(STORE_CONNECTION_LOST, "x").Retryable)
}

func TestHasCode_WalksChain(t *testing.T) {
	inner := NewError(STORE_CONNECTION_LOST, "lost")
	outer := WrapError(INIT_STORE_FAILED, "init failed", inner)

	assert.True(t, HasCode(outer, INIT_STORE_FAILED))
	assert.True(t, HasCode(outer, STORE_CONNECTION_LOST))
	assert.False(t, HasCode(outer, CONFIG_NOT_FOUND))
	assert.False(t, HasCode(errors.New("plain"), CONFIG_NOT_FOUND))
	assert.False(t, HasCode(nil, CONFIG_NOT_FOUND))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CONFIG_PARSE_FAILED, CodeOf(fmt.Errorf("x: %w", NewError(CONFIG_PARSE_FAILED, "bad"))))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestHealthState_UnmarshalJSON(t *testing.T) {
	var s HealthState
	require.NoError(t, json.Unmarshal([]byte(`"degraded"`), &s))
	assert.Equal(t, HealthStateDegraded, s)

	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &s))
}

func TestCombineHealth(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := CombineHealth(map[string]HealthStatus{
			"graph":  Healthy("ok"),
			"vector": Healthy("ok"),
		})
		assert.True(t, h.IsHealthy())
	})

	t.Run("worst state wins", func(t *testing.T) {
		h := CombineHealth(map[string]HealthStatus{
			"graph":  Unhealthy("down"),
			"vector": Degraded("slow"),
			"llm":    Healthy("ok"),
		})
		assert.True(t, h.IsUnhealthy())
		assert.Equal(t, "graph: down; vector: slow", h.Message)
	})

	t.Run("degraded only", func(t *testing.T) {
		h := CombineHealth(map[string]HealthStatus{"vector": Degraded("slow")})
		assert.True(t, h.IsDegraded())
	})
}
