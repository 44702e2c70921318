package models

import "time"

// Matched field names reported in SearchResult.MatchedFields.
const (
	FieldTitle       = "title"
	FieldKeywords    = "keywords"
	FieldDescription = "description"
	FieldTasks       = "tasks"
)

// SearchResult is one ranked occupation.
type SearchResult struct {
	Occupation      *Occupation `json:"occupation"`
	Confidence      float64     `json:"confidence"`
	RelevanceScore  float64     `json:"relevance_score"`
	MatchedFields   []string    `json:"matched_fields"`
	MatchedKeywords []string    `json:"matched_keywords"`
}

// ErrorKind classifies a failed search.
type ErrorKind string

const (
	// KindValidation is a missing or blank query.
	KindValidation ErrorKind = "validation"
	// KindNoMatch is a well-formed query with zero qualifying results.
	KindNoMatch ErrorKind = "no-match"
	// KindRuntime is an unexpected failure during scoring or ranking.
	KindRuntime ErrorKind = "runtime"
)

// SearchError is the error shape handed to presentation layers. Suggestions is never empty.
type SearchError struct {
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions"`
	// DidYouMean is a spelling-corrected query, set only for no-match errors when the
	// vocabulary has a close candidate.
	DidYouMean string    `json:"did_you_mean,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// ResultStats summarizes a result list for display.
type ResultStats struct {
	Total              int     `json:"total"`
	AverageConfidence  float64 `json:"average_confidence"`
	HighConfidence     int     `json:"high_confidence"`
	TopDivisionTitle   string  `json:"top_division_title,omitempty"`
	TopDivisionMatches int     `json:"top_division_matches,omitempty"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	Error     *SearchError    `json:"error,omitempty"`
	Stats     *ResultStats    `json:"stats,omitempty"`
}
