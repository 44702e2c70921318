// Package keyword provides the catalog term vocabulary and spell checking over it.
package keyword

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/shokugyo/internal/models"
)

// Indexed text fields of an occupation.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldKeywords    = "keywords"
)

// minTermLength matches the ranking tokenizer: shorter terms never score.
const minTermLength = 3

// TermDictionary provides access to the term dictionary for spell checking.
type TermDictionary interface {
	// GetAllTerms returns all unique terms.
	GetAllTerms() ([]string, error)
	// GetTermFrequency returns the number of records containing the term.
	GetTermFrequency(term string) (int, error)
	// ContainsTerm checks if a term exists.
	ContainsTerm(term string) (bool, error)
}

// vocabDoc is the indexed shape of one occupation.
type vocabDoc struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Vocabulary is an in-memory Bleve index over catalog titles, descriptions, and keywords.
// Terms and their record frequencies are read once at construction.
type Vocabulary struct {
	index bleve.Index
	terms []string
	freq  map[string]int
}

// NewVocabulary indexes occs in memory.
func NewVocabulary(occs []*models.Occupation) (*Vocabulary, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer: lowercase and tokenize without stemming, so suggested terms are
	// words that actually appear in the catalog.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, f := range []string{fieldTitle, fieldDescription, fieldKeywords} {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}
	docMapping.AddFieldMappingsAt("code", bleve.NewKeywordFieldMapping())
	im.AddDocumentMapping("occupation", docMapping)
	im.DefaultType = "occupation"
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create vocabulary index: %w", err)
	}

	batch := index.NewBatch()
	for _, occ := range occs {
		doc := vocabDoc{
			Code:        occ.Code,
			Title:       occ.Title,
			Description: occ.Description,
			Keywords:    strings.Join(occ.Keywords, " "),
		}
		if err := batch.Index(occ.Code, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index %s: %w", occ.Code, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to build vocabulary: %w", err)
	}

	v := &Vocabulary{index: index, freq: make(map[string]int)}
	if err := v.load(); err != nil {
		index.Close()
		return nil, err
	}
	return v, nil
}

// load collects the field dictionaries and resolves each term's record frequency.
func (v *Vocabulary) load() error {
	for _, field := range []string{fieldTitle, fieldDescription, fieldKeywords} {
		dict, err := v.index.FieldDict(field)
		if err != nil {
			return fmt.Errorf("failed to read %s terms: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil || entry == nil {
				break
			}
			if len(entry.Term) < minTermLength {
				continue
			}
			if _, ok := v.freq[entry.Term]; ok {
				continue
			}
			n, err := v.docFrequency(entry.Term)
			if err != nil {
				dict.Close()
				return err
			}
			v.freq[entry.Term] = n
			v.terms = append(v.terms, entry.Term)
		}
		dict.Close()
	}
	return nil
}

// docFrequency counts the records with term in any text field.
func (v *Vocabulary) docFrequency(term string) (int, error) {
	queries := make([]blevequery.Query, 0, 3)
	for _, field := range []string{fieldTitle, fieldDescription, fieldKeywords} {
		tq := bleve.NewTermQuery(term)
		tq.SetField(field)
		queries = append(queries, tq)
	}
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = 0
	res, err := v.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count term %q: %w", term, err)
	}
	return int(res.Total), nil
}

// GetAllTerms returns every term of at least three characters.
func (v *Vocabulary) GetAllTerms() ([]string, error) {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out, nil
}

// GetTermFrequency returns the number of records containing term.
func (v *Vocabulary) GetTermFrequency(term string) (int, error) {
	return v.freq[strings.ToLower(term)], nil
}

// ContainsTerm checks if a term exists in the vocabulary.
func (v *Vocabulary) ContainsTerm(term string) (bool, error) {
	_, ok := v.freq[strings.ToLower(term)]
	return ok, nil
}

// DocCount returns the number of indexed records.
func (v *Vocabulary) DocCount() (uint64, error) {
	return v.index.DocCount()
}

// Close releases the index.
func (v *Vocabulary) Close() error {
	return v.index.Close()
}
