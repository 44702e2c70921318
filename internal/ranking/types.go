// Package ranking provides tokenization, multi-field similarity scoring, and ranking of
// catalog occupations against free-text queries.
package ranking

import (
	"math"
	"strings"

	"github.com/hyperjump/shokugyo/internal/models"
)

// CorpusStats holds catalog-level statistics for IDF calculation.
type CorpusStats struct {
	// TotalDocs is the number of records in the catalog.
	TotalDocs int
	// DocFrequencies maps terms to the number of records containing them.
	DocFrequencies map[string]int
}

// NewCorpusStats computes document frequencies over the whole catalog. A record counts
// toward a term when its tokenized title, description, and keywords contain the term.
func NewCorpusStats(catalog []*models.Occupation) *CorpusStats {
	stats := &CorpusStats{
		TotalDocs:      len(catalog),
		DocFrequencies: make(map[string]int),
	}
	for _, occ := range catalog {
		for term := range newTermSet(Tokenize(statsText(occ))) {
			stats.DocFrequencies[term]++
		}
	}
	return stats
}

func statsText(occ *models.Occupation) string {
	return occ.Title + " " + occ.Description + " " + strings.Join(occ.Keywords, " ")
}

// IDF returns ln(N / (df + 1)). Terms present in most of the catalog yield a negative
// value, which penalizes ubiquitous terms.
func (c *CorpusStats) IDF(term string) float64 {
	if c.TotalDocs == 0 {
		return 0
	}
	return math.Log(float64(c.TotalDocs) / float64(c.DocFrequencies[term]+1))
}

// ScoreBreakdown holds the weighted contribution of every signal.
type ScoreBreakdown struct {
	TitleSimilarity       float64 `json:"title_similarity"`
	KeywordSimilarity     float64 `json:"keyword_similarity"`
	DescriptionSimilarity float64 `json:"description_similarity"`
	TaskSimilarity        float64 `json:"task_similarity"`
	TFIDF                 float64 `json:"tfidf"`
	ExactTitle            float64 `json:"exact_title"`
	ExactKeyword          float64 `json:"exact_keyword"`
}

// Total sums all contributions.
func (b ScoreBreakdown) Total() float64 {
	return b.TitleSimilarity + b.KeywordSimilarity + b.DescriptionSimilarity + b.TaskSimilarity +
		b.TFIDF + b.ExactTitle + b.ExactKeyword
}

// Match is the scorer output for one (query, occupation) pair.
type Match struct {
	Score           float64        `json:"score"`
	MatchedFields   []string       `json:"matched_fields"`
	MatchedKeywords []string       `json:"matched_keywords"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
}

// profile caches the tokenized fields of one occupation. The catalog is immutable, so
// profiles are built once per ranker.
type profile struct {
	occ           *models.Occupation
	title         termSet
	keywords      termSet
	description   termSet
	tasks         termSet
	bag           map[string]int
	bagSize       int
	lowerTitle    string
	lowerKeywords []string
}

func newProfile(occ *models.Occupation) *profile {
	titleTokens := Tokenize(occ.Title)
	descTokens := Tokenize(occ.Description)
	taskTokens := Tokenize(strings.Join(occ.Tasks, " "))
	lowerKeywords := make([]string, len(occ.Keywords))
	for i, k := range occ.Keywords {
		lowerKeywords[i] = strings.ToLower(k)
	}

	p := &profile{
		occ:           occ,
		title:         newTermSet(titleTokens),
		keywords:      newTermSet(lowerKeywords),
		description:   newTermSet(descTokens),
		tasks:         newTermSet(taskTokens),
		bag:           make(map[string]int),
		lowerTitle:    strings.ToLower(occ.Title),
		lowerKeywords: lowerKeywords,
	}
	for _, group := range [][]string{titleTokens, descTokens, lowerKeywords, taskTokens} {
		for _, t := range group {
			p.bag[t]++
		}
		p.bagSize += len(group)
	}
	return p
}

// preparedQuery is a query tokenized once and reused against every record.
type preparedQuery struct {
	raw      string
	lower    string
	tokens   []string
	set      termSet
	distinct []string
}

func prepareQuery(query string) *preparedQuery {
	tokens := Tokenize(query)
	q := &preparedQuery{
		raw:    query,
		lower:  strings.ToLower(query),
		tokens: tokens,
		set:    make(termSet, len(tokens)),
	}
	for _, t := range tokens {
		if _, ok := q.set[t]; ok {
			continue
		}
		q.set[t] = struct{}{}
		q.distinct = append(q.distinct, t)
	}
	return q
}
