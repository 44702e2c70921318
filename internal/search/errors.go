package search

import (
	"strings"

	"github.com/hyperjump/shokugyo/internal/models"
)

// User-facing messages.
const (
	MessageEmptyQuery = "Please enter a search query"
	MessageNoMatch    = "No matching occupations found"
	MessageRuntime    = "An error occurred while searching. Please try again."

	HintExampleQueries = `Try searching for job titles like "teacher", "doctor", or "engineer"`
)

// RuntimeHints are offered when a search fails unexpectedly.
var RuntimeHints = []string{
	"Check your internet connection",
	"Try a simpler search query",
	"Refresh the page",
}

func (e *Engine) validationError() *models.SearchError {
	return &models.SearchError{
		Kind:        models.KindValidation,
		Message:     MessageEmptyQuery,
		Suggestions: []string{HintExampleQueries},
		Timestamp:   e.now(),
	}
}

func (e *Engine) noMatchError(query string) *models.SearchError {
	err := &models.SearchError{
		Kind:        models.KindNoMatch,
		Message:     MessageNoMatch,
		Suggestions: e.suggester.Fallback(query),
		Timestamp:   e.now(),
	}
	if e.spell != nil {
		corrected := e.spell.GetSuggestedQuery(query)
		if corrected != "" && corrected != strings.ToLower(strings.TrimSpace(query)) {
			err.DidYouMean = corrected
		}
	}
	return err
}

func (e *Engine) runtimeError() *models.SearchError {
	return &models.SearchError{
		Kind:        models.KindRuntime,
		Message:     MessageRuntime,
		Suggestions: append([]string(nil), RuntimeHints...),
		Timestamp:   e.now(),
	}
}
