package search

import (
	"time"

	"github.com/hyperjump/shokugyo/internal/audit"
	"github.com/hyperjump/shokugyo/internal/catalog"
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/internal/ranking"
)

// Suggest returns live autocomplete suggestions for a partial query.
func (e *Engine) Suggest(partial string) []string {
	return e.suggester.Suggest(partial)
}

// ListAuditLog returns the full audit history, oldest first.
func (e *Engine) ListAuditLog() []models.AuditEntry {
	return e.audit.List()
}

// ExportAuditLog returns the full audit history as indented JSON.
func (e *Engine) ExportAuditLog() ([]byte, error) {
	return e.audit.Export()
}

// AuditSummary aggregates the audit history.
func (e *Engine) AuditSummary() *models.AuditSummary {
	return audit.Summarize(e.audit.List(), time.Now())
}

// AuditLog returns the engine's audit log, for sharing with a rebuilt engine.
func (e *Engine) AuditLog() *audit.Log {
	return e.audit
}

// Lookup returns the occupation with the given code.
func (e *Engine) Lookup(code string) (*models.Occupation, bool) {
	return e.ranker.Lookup(code)
}

// Explain returns the score breakdown of one occupation for query.
func (e *Engine) Explain(query, code string) (*ranking.Match, bool) {
	return e.ranker.Explain(query, code)
}

// Divisions returns the distinct divisions in the catalog.
func (e *Engine) Divisions() []models.Division {
	return catalog.Divisions(e.occupations)
}

// Sectors returns the distinct sectors in the catalog.
func (e *Engine) Sectors() []string {
	return catalog.Sectors(e.occupations)
}

// CatalogStats describes the loaded catalog.
type CatalogStats struct {
	Occupations     int               `json:"occupations"`
	DistinctTerms   int               `json:"distinct_terms"`
	Divisions       []models.Division `json:"divisions"`
	Sectors         []string          `json:"sectors"`
	SkillLevels     map[int]int       `json:"skill_levels"`
	AuditEntries    int               `json:"audit_entries"`
	SessionID       string            `json:"session_id"`
	SpellingEnabled bool              `json:"spelling_enabled"`
	VocabularyDocs  uint64            `json:"vocabulary_docs,omitempty"`
	ConfidenceScale float64           `json:"confidence_scale"`
}

// Stats returns catalog and session statistics.
func (e *Engine) Stats() *CatalogStats {
	levels := make(map[int]int)
	for _, occ := range e.occupations {
		levels[occ.SkillLevel]++
	}
	stats := &CatalogStats{
		Occupations:     len(e.occupations),
		DistinctTerms:   len(e.ranker.GetCorpusStats().DocFrequencies),
		Divisions:       e.Divisions(),
		Sectors:         e.Sectors(),
		SkillLevels:     levels,
		AuditEntries:    e.audit.Len(),
		SessionID:       e.audit.SessionID(),
		SpellingEnabled: e.spell != nil,
		ConfidenceScale: e.ranker.GetConfig().ConfidenceScale,
	}
	if e.vocabulary != nil {
		if n, err := e.vocabulary.DocCount(); err == nil {
			stats.VocabularyDocs = n
		}
	}
	return stats
}
