package ranking

import (
	"strings"

	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/pkg/utils"
)

// Scorer computes the weighted multi-field relevance of an occupation for a query.
type Scorer struct {
	config *RankingConfig
	stats  *CorpusStats
}

// NewScorer creates a Scorer. stats must describe the whole catalog, not a filtered subset.
func NewScorer(config *RankingConfig, stats *CorpusStats) *Scorer {
	if config == nil {
		config = DefaultRankingConfig()
	}
	config.ApplyDefaults()
	if stats == nil {
		stats = NewCorpusStats(nil)
	}
	return &Scorer{config: config, stats: stats}
}

// score scores a single uncached occupation.
func (s *Scorer) score(query string, occ *models.Occupation) *Match {
	return s.scoreProfile(prepareQuery(query), newProfile(occ))
}

func (s *Scorer) scoreProfile(q *preparedQuery, p *profile) *Match {
	var b ScoreBreakdown
	b.TitleSimilarity = jaccard(q.set, p.title) * s.config.TitleWeight
	b.KeywordSimilarity = jaccard(q.set, p.keywords) * s.config.KeywordWeight
	b.DescriptionSimilarity = jaccard(q.set, p.description) * s.config.DescriptionWeight
	b.TaskSimilarity = jaccard(q.set, p.tasks) * s.config.TaskWeight
	b.TFIDF = s.tfidf(q, p) * s.config.TFIDFWeight

	if strings.Contains(p.lowerTitle, q.lower) {
		b.ExactTitle = s.config.ExactTitleBonus
	}
	for _, k := range p.lowerKeywords {
		if strings.Contains(k, q.lower) {
			b.ExactKeyword = s.config.ExactKeywordBonus
			break
		}
	}

	return &Match{
		Score:           b.Total(),
		MatchedFields:   matchedFields(b),
		MatchedKeywords: matchedKeywords(q.tokens, p.lowerKeywords),
		Breakdown:       b,
	}
}

// tfidf sums tf(term, record bag) * idf(term) over distinct query terms. An empty bag
// contributes nothing.
func (s *Scorer) tfidf(q *preparedQuery, p *profile) float64 {
	if p.bagSize == 0 {
		return 0
	}
	score := 0.0
	for _, term := range q.distinct {
		tf := float64(p.bag[term]) / float64(p.bagSize)
		score += tf * s.stats.IDF(term)
	}
	return score
}

func matchedFields(b ScoreBreakdown) []string {
	fields := make([]string, 0, 4)
	if b.TitleSimilarity != 0 || b.ExactTitle != 0 {
		fields = append(fields, models.FieldTitle)
	}
	if b.KeywordSimilarity != 0 || b.ExactKeyword != 0 {
		fields = append(fields, models.FieldKeywords)
	}
	if b.DescriptionSimilarity != 0 {
		fields = append(fields, models.FieldDescription)
	}
	if b.TaskSimilarity != 0 {
		fields = append(fields, models.FieldTasks)
	}
	return fields
}

// matchedKeywords collects every keyword containing any query token, deduplicated in
// discovery order.
func matchedKeywords(tokens, keywords []string) []string {
	set := utils.NewOrderedSet(len(keywords))
	for _, token := range tokens {
		for _, k := range keywords {
			if strings.Contains(k, token) {
				set.Add(k)
			}
		}
	}
	return set.Items()
}
