// Package search provides the occupation search facade: ranking, error classification,
// suggestions, and audit recording behind one Engine.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shokugyo/internal/audit"
	"github.com/hyperjump/shokugyo/internal/catalog"
	"github.com/hyperjump/shokugyo/internal/keyword"
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/internal/ranking"
	"github.com/hyperjump/shokugyo/internal/suggest"
	"github.com/hyperjump/shokugyo/pkg/utils"
)

// Recorder observes completed searches. internal/metrics provides the Prometheus one.
type Recorder interface {
	ObserveSearch(outcome string, duration time.Duration, results int)
}

// Outcome labels passed to Recorder.
const (
	OutcomeOK = "ok"
)

// Engine is the search facade over one immutable catalog.
type Engine struct {
	occupations []models.Occupation
	ranker      *ranking.Ranker
	rank        func(query string, filters models.Filters, topN int) ([]*models.SearchResult, error)
	suggester   *suggest.Generator
	vocabulary  *keyword.Vocabulary
	spell       *keyword.SpellChecker
	audit       *audit.Log
	recorder    Recorder
	logger      *zap.Logger
	now         func() time.Time

	didYouMean     bool
	suggestOptions []suggest.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = utils.OrNop(l)
	}
}

// WithAuditLog shares an existing audit log, e.g. across catalog reloads.
func WithAuditLog(l *audit.Log) Option {
	return func(e *Engine) {
		if l != nil {
			e.audit = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithDidYouMean builds a vocabulary of catalog terms and offers spelling corrections
// on no-match errors.
func WithDidYouMean() Option {
	return func(e *Engine) {
		e.didYouMean = true
	}
}

// WithSuggestOptions configures the live suggestion generator.
func WithSuggestOptions(opts ...suggest.Option) Option {
	return func(e *Engine) {
		e.suggestOptions = append(e.suggestOptions, opts...)
	}
}

// WithClock overrides the time source used for error timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds an engine over occs. Corpus statistics are computed once here. The
// slice is copied; callers may reuse it.
func NewEngine(occs []models.Occupation, cfg *ranking.RankingConfig, opts ...Option) *Engine {
	e := &Engine{
		occupations: append([]models.Occupation(nil), occs...),
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.audit == nil {
		e.audit = audit.NewLog()
	}

	ptrs := catalog.Pointers(e.occupations)
	e.ranker = ranking.NewRanker(cfg, ptrs)
	e.rank = e.ranker.Rank
	e.suggester = suggest.NewGenerator(ptrs, e.suggestOptions...)

	if e.didYouMean {
		vocab, err := keyword.NewVocabulary(ptrs)
		if err != nil {
			e.logger.Warn("Spelling suggestions disabled", zap.Error(err))
		} else {
			e.vocabulary = vocab
			e.spell = keyword.NewSpellChecker(vocab)
		}
	}
	return e
}

// Load reads src and builds an engine from it.
func Load(ctx context.Context, src catalog.Source, cfg *ranking.RankingConfig, opts ...Option) (*Engine, error) {
	occs, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := catalog.Validate(occs); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return NewEngine(occs, cfg, opts...), nil
}

// Close releases the vocabulary index, if any. The shared audit log is not closed.
func (e *Engine) Close() error {
	if e.vocabulary != nil {
		return e.vocabulary.Close()
	}
	return nil
}

// Search ranks query without error classification or auditing. A blank query returns an
// empty list; topN <= 0 returns ranking.ErrInvalidLimit.
func (e *Engine) Search(query string, filters models.Filters, topN int) ([]*models.SearchResult, error) {
	if topN <= 0 {
		return nil, ranking.ErrInvalidLimit
	}
	if strings.TrimSpace(query) == "" {
		return []*models.SearchResult{}, nil
	}
	return e.ranker.Rank(query, filters, topN)
}

// Outcome is the result of SearchSafe: either results, or an error describing why there
// are none. Results is never nil.
type Outcome struct {
	Results  []*models.SearchResult
	Err      *models.SearchError
	Duration time.Duration
}

// SearchSafe ranks query and classifies failures instead of returning them. Every
// completed ranking, including one with zero results, is written to the audit log.
func (e *Engine) SearchSafe(ctx context.Context, query string, filters models.Filters, topN int, language string, method models.InputMethod) Outcome {
	start := time.Now()

	if strings.TrimSpace(query) == "" {
		e.observe(string(models.KindValidation), time.Since(start), 0)
		return Outcome{Results: []*models.SearchResult{}, Err: e.validationError()}
	}

	results, err := e.rankSafely(query, filters, topN)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Error("Search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		e.observe(string(models.KindRuntime), elapsed, 0)
		return Outcome{Results: []*models.SearchResult{}, Err: e.runtimeError(), Duration: elapsed}
	}

	if language == "" {
		language = "en"
	}
	if method == "" {
		method = models.InputText
	}
	if _, err := e.audit.Record(ctx, models.AuditEntry{
		Query:        query,
		Filters:      filters,
		ResultsCount: len(results),
		SearchTimeMs: utils.RoundTo(float64(elapsed.Microseconds())/1000, 3),
		Language:     language,
		InputMethod:  method,
	}); err != nil {
		e.logger.Warn("Audit persistence failed", zap.Error(err))
	}

	e.logger.Debug("Search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Duration("duration", elapsed),
	)

	if len(results) == 0 {
		e.observe(string(models.KindNoMatch), elapsed, 0)
		e.logger.Debug("No matching occupations", zap.String("query", query))
		return Outcome{Results: results, Err: e.noMatchError(query), Duration: elapsed}
	}
	e.observe(OutcomeOK, elapsed, len(results))
	return Outcome{Results: results, Duration: elapsed}
}

// rankSafely converts panics inside scoring into errors.
func (e *Engine) rankSafely(query string, filters models.Filters, topN int) (results []*models.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("panic during ranking: %v", r)
		}
	}()
	return e.rank(query, filters, topN)
}

func (e *Engine) observe(outcome string, d time.Duration, n int) {
	if e.recorder != nil {
		e.recorder.ObserveSearch(outcome, d, n)
	}
}

// Execute runs a request the way the HTTP and CLI front ends need it: defaults applied,
// SearchSafe outcome, and display statistics. The error is non-nil only for requests
// that fail validation (bad input method, filter ranges).
func (e *Engine) Execute(ctx context.Context, q *models.SearchQuery, defaultLimit, maxLimit int) (*models.SearchResponse, error) {
	q.Normalize(defaultLimit, maxLimit, "en")
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := e.SearchSafe(ctx, q.Query, q.Filters, q.Limit, q.Language, q.InputMethod)
	return &models.SearchResponse{
		Results:   out.Results,
		Total:     len(out.Results),
		QueryTime: out.Duration.Milliseconds(),
		Query:     q.Query,
		Error:     out.Err,
		Stats:     ranking.Summarize(out.Results),
	}, nil
}
