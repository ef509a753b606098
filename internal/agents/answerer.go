package agents

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/llm"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/memory/vector"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/observability"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/ontology"
	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

// Retrieval strategies reported with an answer.
const (
	StrategyTargeted = "Vector + Universal Keyword Search"
	StrategyGlobal   = "Global Context Fallback"
)

// Retrieval limits.
const (
	vectorTopK         = 3
	keywordMatchLimit  = 5
	globalContextLimit = 10
)

// NoAnswer is what the model is told to say when the context is no help.
const NoAnswer = "I don't know based on the current data."

// stopWords never become keyword searches.
var stopWords = []string{"what", "does", "who", "is", "the", "handle", "responsible", "for", "a", "an"}

// GraphReader is the part of the knowledge store question answering reads.
type GraphReader interface {
	FindEntities(ctx context.Context, keyword string, limit int) ([]string, error)
	Neighborhoods(ctx context.Context, ids []string, limit int) ([]ontology.Neighborhood, error)
}

// Answer is the result of one question.
type Answer struct {
	Question        string                  `json:"question"`
	Answer          string                  `json:"answer"`
	Context         []ontology.Neighborhood `json:"context"`
	Strategy        string                  `json:"strategy"`
	SimilarEntities []string                `json:"similarEntities"`
}

// AnswererMetrics is a snapshot of the answerer counters.
type AnswererMetrics struct {
	Agent            string  `json:"agent"`
	TotalQueries     int     `json:"totalQueries"`
	Errors           int     `json:"errors"`
	VectorMatches    int     `json:"vectorMatches"`
	KeywordFallbacks int     `json:"keywordFallbacks"`
	GlobalFallbacks  int     `json:"globalFallbacks"`
	AvgLatencyMS     float64 `json:"avgLatencyMs"`
}

// Answerer answers natural-language questions from the stored graph.
// Entities are located through the semantic index, then by keyword, and
// their neighbourhoods become the model's only context.
type Answerer struct {
	gen   Generator
	graph GraphReader
	index vector.SemanticIndex
	opts  options

	mu    sync.Mutex
	stats AnswererMetrics
}

// NewAnswerer creates an answerer. index may be nil, in which case only
// keyword search locates entities.
func NewAnswerer(gen Generator, graph GraphReader, index vector.SemanticIndex, opts ...Option) *Answerer {
	return &Answerer{
		gen:   gen,
		graph: graph,
		index: index,
		opts:  buildOptions(AgentAnswerer, opts),
		stats: AnswererMetrics{Agent: AgentAnswerer},
	}
}

// Ask answers question. A blank question is rejected before any lookup.
func (a *Answerer) Ask(ctx context.Context, question string) (ans *Answer, err error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, types.NewError(ErrCodeEmptyQuestion, "question is empty")
	}

	ctx, span := a.opts.tracer.Start(ctx, "ontograph.answerer.ask", trace.WithAttributes(
		observability.AttrAgent.String(AgentAnswerer),
	))
	defer func() { observability.EndSpan(span, err) }()

	var viaKeyword bool
	start := a.opts.clock.Now()
	defer func() { a.observe(ans, viaKeyword, err, a.opts.since(start)) }()

	var ids []string
	ids, viaKeyword = a.locate(ctx, question)

	var hoods []ontology.Neighborhood
	if len(ids) > 0 {
		if hoods, err = a.graph.Neighborhoods(ctx, ids, 0); err != nil {
			return nil, types.WrapError(ErrCodeAnswerFailed, "failed to read graph context", err)
		}
	}
	strategy := StrategyTargeted
	if len(ids) == 0 {
		strategy = StrategyGlobal
	}
	if len(hoods) == 0 {
		a.opts.logger.Debug(ctx, "no targeted context, using general graph context")
		if hoods, err = a.graph.Neighborhoods(ctx, nil, globalContextLimit); err != nil {
			return nil, types.WrapError(ErrCodeAnswerFailed, "failed to read graph context", err)
		}
	}
	if hoods == nil {
		hoods = []ontology.Neighborhood{}
	}
	span.SetAttributes(
		attribute.String("ontograph.answerer.strategy", strategy),
		attribute.Int("ontograph.answerer.context", len(hoods)),
		attribute.Bool("ontograph.answerer.keyword_fallback", viaKeyword),
	)

	text, err := a.generate(ctx, question, hoods)
	if err != nil {
		return nil, types.WrapError(ErrCodeAnswerFailed, "failed to generate answer", err)
	}

	a.opts.logger.Info(ctx, "question answered",
		"strategy", strategy, "context", len(hoods), "latency_ms", a.opts.since(start).Milliseconds())
	return &Answer{
		Question:        question,
		Answer:          text,
		Context:         hoods,
		Strategy:        strategy,
		SimilarEntities: ids,
	}, nil
}

// locate returns the ids of entities relevant to question. Keyword search
// runs only when the index finds nothing; lookup failures are logged and
// treated as no match.
func (a *Answerer) locate(ctx context.Context, question string) (ids []string, viaKeyword bool) {
	if a.index != nil {
		hits, err := a.index.Search(ctx, question, vectorTopK)
		switch {
		case types.HasCode(err, vector.ErrCodeIndexDisabled):
		case err != nil:
			a.opts.logger.Warn(ctx, "vector search failed", "error", err.Error())
		default:
			for _, h := range hits {
				ids = appendUnique(ids, h.ID)
			}
		}
	}
	if len(ids) > 0 {
		return ids, false
	}

	for _, word := range Keywords(question) {
		matches, err := a.graph.FindEntities(ctx, word, keywordMatchLimit)
		if err != nil {
			a.opts.logger.Warn(ctx, "keyword search failed", "keyword", word, "error", err.Error())
			continue
		}
		for _, id := range matches {
			ids = appendUnique(ids, id)
		}
	}
	return ids, true
}

func (a *Answerer) generate(ctx context.Context, question string, hoods []ontology.Neighborhood) (string, error) {
	res, err := a.gen.Generate(ctx, AnswerPrompt(question, hoods))
	if err != nil {
		return "", err
	}
	var reply struct {
		Answer string `json:"answer"`
	}
	if err := res.Decode(&reply); err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.Answer) == "" {
		return "", llm.NewMalformedResponseError("reply has no answer", nil)
	}
	return strings.TrimSpace(reply.Answer), nil
}

func (a *Answerer) observe(ans *Answer, viaKeyword bool, err error, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.TotalQueries++
	a.stats.AvgLatencyMS = rollingAverage(a.stats.AvgLatencyMS, a.stats.TotalQueries, millis(latency))
	if err != nil {
		a.stats.Errors++
		return
	}
	switch {
	case ans.Strategy == StrategyGlobal:
		a.stats.GlobalFallbacks++
	case viaKeyword:
		a.stats.KeywordFallbacks++
	default:
		a.stats.VectorMatches++
	}
}

// Metrics returns a snapshot of the answerer counters.
func (a *Answerer) Metrics() AnswererMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Keywords splits question into the words worth a keyword search: stop
// words and words of two characters or fewer are dropped, and surrounding
// punctuation is trimmed.
func Keywords(question string) []string {
	var out []string
	for _, w := range strings.Fields(question) {
		w = strings.Trim(w, `?!.,;:"'()`)
		if len([]rune(w)) <= 2 || slices.Contains(stopWords, strings.ToLower(w)) {
			continue
		}
		out = appendUnique(out, w)
	}
	return out
}

func appendUnique(list []string, s string) []string {
	if s == "" || slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
