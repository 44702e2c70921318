// Package cli formats engine output for the shokugyo command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyperjump/shokugyo/internal/i18n"
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/internal/search"
	"github.com/hyperjump/shokugyo/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one record per line, tab separated.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const maxAuditQueryWords = 12

const rule = "─────────────────────────────────────────────────────────"

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes a search response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, r := range response.Results {
		fmt.Fprintf(w, "%s\t%.4f\t%s\n", r.Occupation.Code, r.Confidence, r.Occupation.Title)
	}
	if response.Error != nil {
		fmt.Fprintf(w, "# %s: %s\n", response.Error.Kind, response.Error.Message)
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	if response.Error != nil && len(response.Results) == 0 {
		writeSearchError(w, response.Error)
		return
	}
	fmt.Fprintf(w, "\nFound %d occupations for %q in %dms\n", response.Total, response.Query, response.QueryTime)
	if s := response.Stats; s != nil && s.Total > 0 {
		fmt.Fprintf(w, "Average confidence %.0f%%, %d high confidence", s.AverageConfidence*100, s.HighConfidence)
		if s.TopDivisionTitle != "" {
			fmt.Fprintf(w, ", most relevant division: %s (%d)", s.TopDivisionTitle, s.TopDivisionMatches)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
}

func writeOneResult(w io.Writer, rank int, result *models.SearchResult) {
	occ := result.Occupation
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "[%d] %s (%s) | Confidence: %.0f%% | Score: %.4f\n",
		rank, occ.Title, occ.Code, result.Confidence*100, result.RelevanceScore)
	fmt.Fprintf(w, "Division: %s | Sector: %s | Skill level: %d\n", occ.DivisionTitle, occ.Sector, occ.SkillLevel)
	if len(result.MatchedFields) > 0 {
		fmt.Fprintf(w, "Matched: %s", strings.Join(result.MatchedFields, ", "))
		if len(result.MatchedKeywords) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(result.MatchedKeywords, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(occ.Description, 200))
}

func writeSearchError(w io.Writer, e *models.SearchError) {
	fmt.Fprintf(w, "\n%s\n", e.Message)
	if e.DidYouMean != "" {
		fmt.Fprintf(w, "Did you mean: %s?\n", e.DidYouMean)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range e.Suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
	fmt.Fprintln(w)
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

// WriteSuggestions writes live suggestions for partial.
func WriteSuggestions(w io.Writer, partial string, suggestions []string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, map[string]interface{}{"query": partial, "suggestions": suggestions})
	case OutputCompact:
		for _, s := range suggestions {
			fmt.Fprintln(w, s)
		}
		return nil
	default:
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "No suggestions for %q\n", partial)
			return nil
		}
		for i, s := range suggestions {
			fmt.Fprintf(w, "%d. %s\n", i+1, s)
		}
		return nil
	}
}

// WriteAuditEntries writes audit entries, oldest first.
func WriteAuditEntries(w io.Writer, entries []models.AuditEntry, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if entries == nil {
			entries = []models.AuditEntry{}
		}
		return writeJSON(w, entries)
	case OutputCompact:
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.InputMethod, e.ResultsCount, e.Language, e.Query)
		}
		return nil
	default:
		if len(entries) == 0 {
			fmt.Fprintln(w, "No audit entries")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %-5s  %-2s  %3d results  %7.2fms  %s",
				e.Timestamp.Format("2006-01-02 15:04:05"), e.InputMethod, e.Language,
				e.ResultsCount, e.SearchTimeMs, truncateWords(e.Query, maxAuditQueryWords))
			if !e.Filters.IsZero() {
				fmt.Fprintf(w, "  [%s]", describeFilters(e.Filters))
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "\n%d entries\n", len(entries))
		return nil
	}
}

// WriteAuditSummary writes aggregate audit counts.
func WriteAuditSummary(w io.Writer, s *models.AuditSummary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "total:         %d\n", s.Total)
	fmt.Fprintf(w, "today:         %d\n", s.Today)
	fmt.Fprintf(w, "zero_results:  %d\n", s.ZeroResults)
	for _, m := range []models.InputMethod{models.InputText, models.InputVoice} {
		fmt.Fprintf(w, "%-14s %d\n", string(m)+":", s.ByMethod[m])
	}
	for _, lang := range sortedKeys(s.ByLanguage) {
		fmt.Fprintf(w, "lang %-9s %d\n", lang+":", s.ByLanguage[lang])
	}
	if len(s.Recent) > 0 {
		fmt.Fprintln(w, "\n# recent")
		for _, e := range s.Recent {
			fmt.Fprintf(w, "%s  %s (%d)\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Query, e.ResultsCount)
		}
	}
	return nil
}

// WriteCatalogStats writes catalog statistics.
func WriteCatalogStats(w io.Writer, stats *search.CatalogStats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "occupations:      %d\n", stats.Occupations)
	fmt.Fprintf(w, "distinct_terms:   %d\n", stats.DistinctTerms)
	fmt.Fprintf(w, "spelling_enabled: %t\n", stats.SpellingEnabled)
	fmt.Fprintf(w, "confidence_scale: %g\n", stats.ConfidenceScale)
	levels := make([]int, 0, len(stats.SkillLevels))
	for l := range stats.SkillLevels {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	for _, l := range levels {
		fmt.Fprintf(w, "skill_level_%d:    %d\n", l, stats.SkillLevels[l])
	}
	if format == OutputCompact {
		return nil
	}
	fmt.Fprintln(w, "\n# divisions")
	for _, d := range stats.Divisions {
		fmt.Fprintf(w, "%s  %s\n", d.Code, d.Title)
	}
	fmt.Fprintln(w, "\n# sectors")
	for _, s := range stats.Sectors {
		fmt.Fprintln(w, s)
	}
	return nil
}

// WriteLanguages writes the supported languages.
func WriteLanguages(w io.Writer, langs []i18n.Language, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, langs)
	case OutputCompact:
		for _, l := range langs {
			fmt.Fprintf(w, "%s\t%s\n", l.Code, l.VoiceCode)
		}
		return nil
	default:
		for _, l := range langs {
			fmt.Fprintf(w, "%-3s %-10s %-12s %s\n", l.Code, l.Name, l.NativeName, l.VoiceCode)
		}
		return nil
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describeFilters(f models.Filters) string {
	var parts []string
	if f.Division != "" {
		parts = append(parts, "division="+f.Division)
	}
	if f.Sector != "" {
		parts = append(parts, "sector="+f.Sector)
	}
	if f.SkillLevel != 0 {
		parts = append(parts, fmt.Sprintf("skill=%d", f.SkillLevel))
	}
	if f.MinConfidence > 0 {
		parts = append(parts, fmt.Sprintf("min_confidence=%.2f", f.MinConfidence))
	}
	return strings.Join(parts, " ")
}

// truncateWords returns up to maxWords from the space-separated string.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
