package ranking

import (
	"errors"
	"math"
	"sort"

	"github.com/hyperjump/shokugyo/internal/models"
)

// ErrInvalidLimit is returned when topN is not positive.
var ErrInvalidLimit = errors.New("topN must be positive")

// Ranker scores a fixed catalog, applies filters, and orders the results.
type Ranker struct {
	config   *RankingConfig
	scorer   *Scorer
	stats    *CorpusStats
	catalog  []*models.Occupation
	profiles []*profile
	byCode   map[string]*models.Occupation
}

// NewRanker creates a Ranker over catalog. Corpus statistics and per-record token
// profiles are computed once here; catalog must not be mutated afterwards.
func NewRanker(config *RankingConfig, catalog []*models.Occupation) *Ranker {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()

	stats := NewCorpusStats(catalog)
	r := &Ranker{
		config:   config,
		scorer:   NewScorer(config, stats),
		stats:    stats,
		catalog:  catalog,
		profiles: make([]*profile, len(catalog)),
		byCode:   make(map[string]*models.Occupation, len(catalog)),
	}
	for i, occ := range catalog {
		r.profiles[i] = newProfile(occ)
		r.byCode[occ.Code] = occ
	}
	return r
}

// Rank returns up to topN results for query. Steps, in order: equality filters narrow
// the candidates, every candidate is scored, non-positive scores are dropped, the rest
// are stably sorted by score descending, MinConfidence is applied, and the list is
// truncated.
func (r *Ranker) Rank(query string, filters models.Filters, topN int) ([]*models.SearchResult, error) {
	if topN <= 0 {
		return nil, ErrInvalidLimit
	}
	q := prepareQuery(query)

	results := make([]*models.SearchResult, 0)
	for _, p := range r.profiles {
		if !filters.Matches(p.occ) {
			continue
		}
		m := r.scorer.scoreProfile(q, p)
		// Also rejects NaN.
		if !(m.Score > 0) {
			continue
		}
		results = append(results, &models.SearchResult{
			Occupation:      p.occ,
			Confidence:      r.Confidence(m.Score),
			RelevanceScore:  m.Score,
			MatchedFields:   m.MatchedFields,
			MatchedKeywords: m.MatchedKeywords,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if filters.MinConfidence > 0 {
		results = FilterByMinConfidence(results, filters.MinConfidence)
	}
	return TopN(results, topN), nil
}

// Confidence converts a raw score into [0, 1] using the configured scale.
func (r *Ranker) Confidence(score float64) float64 {
	return math.Max(0, math.Min(score/r.config.ConfidenceScale, 1.0))
}

// Explain returns the full score breakdown of one catalog record for query.
// The second return value is false when code is not in the catalog.
func (r *Ranker) Explain(query, code string) (*Match, bool) {
	for _, p := range r.profiles {
		if p.occ.Code == code {
			return r.scorer.scoreProfile(prepareQuery(query), p), true
		}
	}
	return nil, false
}

// Lookup returns the catalog record with the given code.
func (r *Ranker) Lookup(code string) (*models.Occupation, bool) {
	occ, ok := r.byCode[code]
	return occ, ok
}

// Catalog returns the ranked catalog in its original order.
func (r *Ranker) Catalog() []*models.Occupation {
	return r.catalog
}

// GetConfig returns the ranking configuration.
func (r *Ranker) GetConfig() *RankingConfig {
	return r.config
}

// GetCorpusStats returns the catalog statistics.
func (r *Ranker) GetCorpusStats() *CorpusStats {
	return r.stats
}

// FilterByMinConfidence drops results below minConfidence, keeping order.
func FilterByMinConfidence(results []*models.SearchResult, minConfidence float64) []*models.SearchResult {
	filtered := make([]*models.SearchResult, 0, len(results))
	for _, res := range results {
		if res.Confidence >= minConfidence {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// TopN returns the top n results.
func TopN(results []*models.SearchResult, n int) []*models.SearchResult {
	if n >= len(results) {
		return results
	}
	return results[:n]
}
