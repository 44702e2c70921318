package models

import (
	"fmt"
	"strings"
)

// InputMethod records how a query was entered.
type InputMethod string

const (
	// InputText is a typed query.
	InputText InputMethod = "text"
	// InputVoice is a query transcribed from speech.
	InputVoice InputMethod = "voice"
)

// Valid reports whether m is a known input method.
func (m InputMethod) Valid() bool {
	return m == InputText || m == InputVoice
}

// Filters narrows the catalog before scoring. Zero values mean "no constraint".
type Filters struct {
	Division      string  `json:"division,omitempty" yaml:"division,omitempty"`
	SkillLevel    int     `json:"skill_level,omitempty" yaml:"skill_level,omitempty"`
	Sector        string  `json:"sector,omitempty" yaml:"sector,omitempty"`
	MinConfidence float64 `json:"min_confidence,omitempty" yaml:"min_confidence,omitempty"`
}

// Matches reports whether occ satisfies the equality filters (division, skill level, sector).
// MinConfidence is applied after scoring and is not checked here.
func (f Filters) Matches(occ *Occupation) bool {
	if f.Division != "" && occ.Division != f.Division {
		return false
	}
	if f.SkillLevel != 0 && occ.SkillLevel != f.SkillLevel {
		return false
	}
	if f.Sector != "" && occ.Sector != f.Sector {
		return false
	}
	return true
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// SearchQuery represents a search request with optional filters.
type SearchQuery struct {
	Query       string      `json:"query"`
	Filters     Filters     `json:"filters,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Language    string      `json:"language,omitempty"`
	InputMethod InputMethod `json:"input_method,omitempty"`
}

// Normalize fills defaults for limit, language, and input method. maxLimit caps the limit
// when positive.
func (q *SearchQuery) Normalize(defaultLimit, maxLimit int, defaultLanguage string) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Language == "" {
		q.Language = defaultLanguage
	}
	if q.InputMethod == "" {
		q.InputMethod = InputText
	}
}

// Validate checks fields that cannot be defaulted. A blank query is not an error here;
// the search facade reports it as a validation outcome.
func (q *SearchQuery) Validate() error {
	if !q.InputMethod.Valid() {
		return fmt.Errorf("invalid input method %q", q.InputMethod)
	}
	if q.Filters.SkillLevel < 0 || q.Filters.SkillLevel > 4 {
		return fmt.Errorf("skill level must be between 1 and 4, got %d", q.Filters.SkillLevel)
	}
	if q.Filters.MinConfidence < 0 || q.Filters.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be between 0 and 1, got %v", q.Filters.MinConfidence)
	}
	return nil
}

// IsBlank reports whether the query text is empty or whitespace-only.
func (q *SearchQuery) IsBlank() bool {
	return strings.TrimSpace(q.Query) == ""
}
