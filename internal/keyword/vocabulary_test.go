package keyword

import (
	"testing"

	"github.com/hyperjump/shokugyo/internal/catalog"
)

func newSeedVocabulary(t *testing.T) *Vocabulary {
	t.Helper()
	occs, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	v, err := NewVocabulary(catalog.Pointers(occs))
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestVocabulary_Terms(t *testing.T) {
	v := newSeedVocabulary(t)

	count, err := v.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if count != 10 {
		t.Errorf("DocCount = %d, want 10", count)
	}

	terms, err := v.GetAllTerms()
	if err != nil {
		t.Fatalf("GetAllTerms: %v", err)
	}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if len(term) < minTermLength {
			t.Errorf("short term %q in vocabulary", term)
		}
		if seen[term] {
			t.Errorf("duplicate term %q", term)
		}
		seen[term] = true
	}
	for _, want := range []string{"software", "developer", "machine", "teacher", "farming"} {
		if !seen[want] {
			t.Errorf("expected %q in vocabulary", want)
		}
	}
}

func TestVocabulary_Frequency(t *testing.T) {
	v := newSeedVocabulary(t)

	tests := []struct {
		term string
		want int
	}{
		{"machine", 2},
		{"worker", 2},
		{"software", 1},
		{"Cook", 1},
		{"unknownterm", 0},
	}
	for _, tt := range tests {
		got, err := v.GetTermFrequency(tt.term)
		if err != nil {
			t.Fatalf("GetTermFrequency(%q): %v", tt.term, err)
		}
		if got != tt.want {
			t.Errorf("GetTermFrequency(%q) = %d, want %d", tt.term, got, tt.want)
		}
	}

	ok, _ := v.ContainsTerm("teacher")
	if !ok {
		t.Error("expected teacher to be contained")
	}
	ok, _ = v.ContainsTerm("zzqx")
	if ok {
		t.Error("expected zzqx not to be contained")
	}
}

func TestVocabulary_Empty(t *testing.T) {
	v, err := NewVocabulary(nil)
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	defer v.Close()

	terms, _ := v.GetAllTerms()
	if len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

func TestSpellChecker_WithVocabulary(t *testing.T) {
	sc := NewSpellChecker(newSeedVocabulary(t))

	tests := []struct {
		query string
		want  string
	}{
		{"sofware developr", "software developer"},
		{"techer", "teacher"},
		{"machne operator", "machine operator"},
		{"wroker", "worker"},
		{"software developer", ""},
		{"zzqxnonsense", ""},
	}
	for _, tt := range tests {
		if got := sc.GetSuggestedQuery(tt.query); got != tt.want {
			t.Errorf("GetSuggestedQuery(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
