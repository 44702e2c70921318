package ranking

import (
	"regexp"
	"strings"
)

// nonWord matches anything that is neither an ASCII word character nor whitespace.
var nonWord = regexp.MustCompile(`[^\w\s]`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {},
}

// Tokenize lower-cases text, turns punctuation into spaces, splits on whitespace, and
// drops tokens of two characters or fewer as well as stopwords. Order and duplicates
// are preserved.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// IsStopWord reports whether word (already lower-cased) is filtered by Tokenize.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
