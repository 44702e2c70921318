package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/shokugyo/internal/models"
)

// document is the on-disk shape of YAML and JSON catalogs.
type document struct {
	Occupations []models.Occupation `json:"occupations" yaml:"occupations"`
}

// FileSource loads a catalog from a .yaml, .yml, .json, or .xlsx file.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads, decodes, and validates the file.
func (f *FileSource) Load(ctx context.Context) ([]models.Occupation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	occs, err := Decode(data, filepath.Ext(f.Path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", f.Path, err)
	}
	if err := Validate(occs); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", f.Path, err)
	}
	return occs, nil
}

// Decode parses catalog bytes according to the file extension (with or without dot).
func Decode(data []byte, ext string) ([]models.Occupation, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		return doc.Occupations, nil
	case "json":
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
		return doc.Occupations, nil
	case "xlsx":
		return readExcel(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes occs to w in the format named by ext. It is the inverse of Decode.
func Encode(w io.Writer, occs []models.Occupation, ext string) error {
	doc := document{Occupations: occs}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "xlsx":
		return WriteExcel(w, occs)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
