package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 429: Too Many Requests"), true},
		{errors.New("You exceeded your current quota"), true},
		{errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{errors.New("anthropic: overloaded_error"), true},
		{NewRateLimitError("google", nil), true},
		{errors.New("invalid argument"), false},
		{nil, false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorCode
	}{
		{"canceled", fmt.Errorf("call: %w", context.Canceled), ErrContextCanceled},
		{"throttled", errors.New("status 429"), ErrProviderRateLimited},
		{"auth", errors.New("API key not valid"), ErrProviderUnauthorized},
		{"timeout", errors.New("context deadline exceeded"), ErrTimeoutExceeded},
		{"network", errors.New("dial tcp: connection refused"), ErrNetworkFailed},
		{"safety", errors.New("response blocked by safety settings"), ErrContentFiltered},
		{"model missing", errors.New("model not found"), ErrProviderNotFound},
		{"other", errors.New("something odd"), ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError("google", tt.err)
			assert.True(t, types.HasCode(got, tt.want), "got %v", got)
		})
	}
}

func TestTranslateError_PassesThroughCodedErrors(t *testing.T) {
	orig := NewMalformedResponseError("bad", nil)
	assert.Same(t, orig, TranslateError("google", orig))
	assert.Nil(t, TranslateError("google", nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewNetworkError("reset", nil)))
	assert.True(t, IsRetryable(NewRateLimitError("google", nil)))
	assert.False(t, IsRetryable(NewMalformedResponseError("bad", nil)))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestRateLimitConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRateLimitConfig().Validate())
	assert.Error(t, RateLimitConfig{MinDelay: -1}.Validate())
	assert.Error(t, RateLimitConfig{MaxRetries: -1}.Validate())
}

func TestProviderConfig_Validate(t *testing.T) {
	cfg := ProviderConfig{Type: ProviderGoogle, DefaultModel: "gemini-2.5-flash"}
	assert.Error(t, cfg.Validate(), "google requires an api key")

	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	assert.NoError(t, (&ProviderConfig{Type: ProviderMock}).Validate())
	assert.Error(t, (&ProviderConfig{Type: "bedrock"}).Validate())
}
