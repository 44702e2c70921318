package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hyperjump/shokugyo/internal/models"
)

//go:embed data/nco.yaml
var defaultCatalog []byte

// Default returns the embedded seed catalog.
func Default() ([]models.Occupation, error) {
	occs, err := Decode(defaultCatalog, "yaml")
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	if err := Validate(occs); err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return occs, nil
}

// DefaultSource is a Source for the embedded seed catalog.
type DefaultSource struct{}

// Load returns the embedded seed catalog.
func (DefaultSource) Load(_ context.Context) ([]models.Occupation, error) {
	return Default()
}

// Open returns a FileSource for path, or the embedded catalog when path is empty.
func Open(path string) Source {
	if path == "" {
		return DefaultSource{}
	}
	return NewFileSource(path)
}
