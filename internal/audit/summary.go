package audit

import (
	"time"

	"github.com/hyperjump/shokugyo/internal/models"
)

// RecentCount is the number of entries listed in a summary.
const RecentCount = 5

// Summarize aggregates entries (oldest first) for display. "Today" is the calendar day
// of now in now's location.
func Summarize(entries []models.AuditEntry, now time.Time) *models.AuditSummary {
	s := &models.AuditSummary{
		Total:      len(entries),
		ByMethod:   make(map[models.InputMethod]int),
		ByLanguage: make(map[string]int),
		Recent:     make([]models.AuditEntry, 0, RecentCount),
	}
	y, m, d := now.Date()
	for _, e := range entries {
		ey, em, ed := e.Timestamp.In(now.Location()).Date()
		if ey == y && em == m && ed == d {
			s.Today++
		}
		s.ByMethod[e.InputMethod]++
		s.ByLanguage[e.Language]++
		if e.ResultsCount == 0 {
			s.ZeroResults++
		}
	}
	for i := len(entries) - 1; i >= 0 && len(s.Recent) < RecentCount; i-- {
		s.Recent = append(s.Recent, entries[i])
	}
	return s
}
