package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StructuredResult is parsed model output.
type StructuredResult struct {
	// Raw is the normalized JSON document.
	Raw json.RawMessage
	// Text is the unmodified model output.
	Text string
	// Attempts counts calls made, including throttled ones.
	Attempts int
}

// Decode unmarshals the result into v. Shape mismatches are reported as
// ErrMalformedResponse so callers can tell them apart from transport failures.
func (r *StructuredResult) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return NewMalformedResponseError("model output does not match expected shape", err)
	}
	return nil
}

// Generator is the rate-limited generation client shared by every stage.
type Generator struct {
	provider    LLMProvider
	limiter     *Limiter
	clock       Clock
	retry       RateLimitConfig
	model       string
	temperature float64
	maxTokens   int
	logger      *observability.TracedLogger
	metrics     *observability.PipelineMetrics
	tracer      trace.Tracer
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock injects the time source used for spacing and backoff.
func WithClock(c Clock) GeneratorOption {
	return func(g *Generator) { g.clock = c }
}

// WithLimiter shares an existing gate instead of creating one.
func WithLimiter(l *Limiter) GeneratorOption {
	return func(g *Generator) { g.limiter = l }
}

// WithLogger sets the logger.
func WithLogger(l *observability.TracedLogger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.PipelineMetrics) GeneratorOption {
	return func(g *Generator) { g.metrics = m }
}

// WithTracerProvider sets the tracer provider for generation spans.
func WithTracerProvider(tp trace.TracerProvider) GeneratorOption {
	return func(g *Generator) { g.tracer = observability.Tracer(tp) }
}

// NewGenerator wraps provider with the spacing and retry policy from cfg.
func NewGenerator(provider LLMProvider, cfg ProviderConfig, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:    provider,
		retry:       cfg.RateLimit,
		model:       cfg.DefaultModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = SystemClock{}
	}
	if g.limiter == nil {
		g.limiter = NewLimiter(g.retry.MinDelay, g.clock)
	}
	if g.logger == nil {
		g.logger = observability.NopLogger()
	}
	if g.tracer == nil {
		g.tracer = observability.Tracer(nil)
	}
	return g
}

// Generate sends prompt to the model and returns its output as JSON.
//
// Every attempt first waits on the shared limiter. A throttled attempt
// sleeps BaseDelay*2^attempt and retries, up to MaxRetries retries; after
// that ErrRateLimitExceeded is returned. Any other provider error is
// returned immediately. Unparseable output yields ErrMalformedResponse.
func (g *Generator) Generate(ctx context.Context, prompt string) (result *StructuredResult, err error) {
	ctx, span := g.tracer.Start(ctx, "llm.generate",
		trace.WithAttributes(attribute.String("llm.provider", g.provider.Name())))
	defer func() { observability.EndSpan(span, err) }()

	req := CompletionRequest{
		Model:       g.model,
		Messages:    []Message{NewUserMessage(prompt)},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSONMode:    true,
	}
	if err := req.Validate(); err != nil {
		return nil, NewInvalidRequestError(err.Error())
	}

	for attempt := 0; ; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, types.WrapError(ErrContextCanceled, "waiting for generation slot", err)
		}

		span.SetAttributes(observability.AttrAttempt.Int(attempt + 1))
		resp, callErr := g.provider.Complete(ctx, req)
		if callErr == nil {
			g.metrics.RecordGenerationAttempt(ctx, "success")
			return parseStructured(resp.Message.Content, attempt+1)
		}

		if !IsRateLimited(callErr) {
			g.metrics.RecordGenerationAttempt(ctx, "error")
			return nil, TranslateError(g.provider.Name(), callErr)
		}

		g.metrics.RecordGenerationAttempt(ctx, "throttled")
		if attempt >= g.retry.MaxRetries {
			g.logger.Error(ctx, "generation throttled, retries exhausted",
				"attempts", attempt+1, "error", callErr.Error())
			return nil, NewRateLimitExceededError(attempt+1, callErr)
		}

		backoff := g.backoff(attempt)
		g.logger.Warn(ctx, "generation throttled, backing off",
			"retry", attempt+1, "max_retries", g.retry.MaxRetries, "backoff", backoff.String())
		g.metrics.RecordBackoff(ctx, backoff)
		if err := g.clock.Sleep(ctx, backoff); err != nil {
			return nil, types.WrapError(ErrContextCanceled, "backoff interrupted", err)
		}
	}
}

// GenerateInto runs Generate and decodes the result into T.
func GenerateInto[T any](ctx context.Context, g *Generator, prompt string) (T, error) {
	var out T
	res, err := g.Generate(ctx, prompt)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Provider returns the wrapped provider.
func (g *Generator) Provider() LLMProvider {
	return g.provider
}

func (g *Generator) backoff(attempt int) time.Duration {
	return g.retry.BaseDelay * time.Duration(1<<attempt)
}

func parseStructured(text string, attempts int) (*StructuredResult, error) {
	cleaned := StripFences(text)
	if cleaned == "" {
		return nil, NewMalformedResponseError("model returned empty output", nil)
	}
	if !json.Valid([]byte(cleaned)) {
		extracted, err := ExtractJSON(text)
		if err != nil {
			return nil, NewMalformedResponseError("model output is not valid JSON", err)
		}
		cleaned = extracted
	}
	return &StructuredResult{
		Raw:      json.RawMessage(cleaned),
		Text:     text,
		Attempts: attempts,
	}, nil
}
