// Package suggest produces autocomplete suggestions while typing and remediation hints
// when a search finds nothing.
package suggest

import (
	"fmt"
	"strings"

	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/pkg/utils"
)

const (
	// DefaultLimit is the maximum number of live suggestions.
	DefaultLimit = 5
	// DefaultCacheSize is the number of partial queries kept in the LRU cache.
	DefaultCacheSize = 256

	// fallbackPrefixLen is the number of leading query characters matched by Fallback.
	fallbackPrefixLen = 3
	maxTitleHints     = 3
	minFallback       = 3
	maxFallback       = 5
)

// Generic hints offered when a query finds nothing.
const (
	HintBroaderTerms  = `Use broader terms (e.g., "teacher" instead of "mathematics teacher")`
	HintSynonyms      = "Try synonyms or alternative job titles"
	HintRemoveFilters = "Remove filters to see more results"
)

// Generator produces suggestions from an immutable catalog.
type Generator struct {
	catalog []*models.Occupation
	limit   int
	cache   *Cache
}

// Option configures a Generator.
type Option func(*Generator)

// WithLimit sets the maximum number of live suggestions, capped at DefaultLimit.
func WithLimit(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.limit = min(n, DefaultLimit)
		}
	}
}

// WithCacheSize sets the LRU capacity. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.cache = NewCache(n)
		}
	}
}

// NewGenerator creates a Generator over catalog. catalog must not be mutated afterwards.
func NewGenerator(catalog []*models.Occupation, opts ...Option) *Generator {
	g := &Generator{
		catalog: catalog,
		limit:   DefaultLimit,
		cache:   NewCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Suggest returns up to the configured limit of titles and keywords containing partial,
// case-insensitively, in catalog order (a record's title before its keywords). partial is
// matched as typed, trailing spaces included. A blank partial yields no suggestions.
func (g *Generator) Suggest(partial string) []string {
	if strings.TrimSpace(partial) == "" {
		return []string{}
	}
	key := strings.ToLower(partial)
	if cached, ok := g.cache.Get(key); ok {
		return clone(cached)
	}

	set := utils.NewOrderedSet(g.limit)
	for _, occ := range g.catalog {
		if set.Len() >= g.limit {
			break
		}
		if strings.Contains(strings.ToLower(occ.Title), key) {
			set.Add(occ.Title)
		}
		for _, k := range occ.Keywords {
			if strings.Contains(strings.ToLower(k), key) {
				set.Add(k)
			}
		}
	}
	out := set.Items()
	if len(out) > g.limit {
		out = out[:g.limit]
	}
	g.cache.Set(key, out)
	return clone(out)
}

// Fallback returns between three and five remediation hints for a query that found
// nothing. Up to three records whose title or a keyword contains the first three
// characters of the query are offered as titles to try; when fewer than three are found,
// the generic hints follow.
func (g *Generator) Fallback(query string) []string {
	prefix := []rune(strings.ToLower(query))
	if len(prefix) > fallbackPrefixLen {
		prefix = prefix[:fallbackPrefixLen]
	}
	needle := string(prefix)

	hints := make([]string, 0, maxFallback)
	for _, occ := range g.catalog {
		if len(hints) >= maxTitleHints {
			break
		}
		if containsFold(occ, needle) {
			hints = append(hints, fmt.Sprintf(`Try "%s"`, occ.Title))
		}
	}
	if len(hints) < minFallback {
		hints = append(hints, HintBroaderTerms, HintSynonyms, HintRemoveFilters)
	}
	if len(hints) > maxFallback {
		hints = hints[:maxFallback]
	}
	return hints
}

func containsFold(occ *models.Occupation, needle string) bool {
	if strings.Contains(strings.ToLower(occ.Title), needle) {
		return true
	}
	for _, k := range occ.Keywords {
		if strings.Contains(strings.ToLower(k), needle) {
			return true
		}
	}
	return false
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
