// Package catalog loads the immutable occupation catalog from files or the embedded default.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hyperjump/shokugyo/internal/models"
)

// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Source provides the occupation list once, at engine construction.
type Source interface {
	Load(ctx context.Context) ([]models.Occupation, error)
}

// Static is a Source backed by an in-memory slice.
type Static []models.Occupation

// Load returns a copy of the slice.
func (s Static) Load(_ context.Context) ([]models.Occupation, error) {
	out := make([]models.Occupation, len(s))
	copy(out, s)
	return out, nil
}

// Validate checks that every record has a unique non-empty code, a title, and a skill
// level between 1 and 4.
func Validate(occs []models.Occupation) error {
	seen := make(map[string]struct{}, len(occs))
	for i, occ := range occs {
		if occ.Code == "" {
			return fmt.Errorf("record %d: code is required", i)
		}
		if _, dup := seen[occ.Code]; dup {
			return fmt.Errorf("record %d: duplicate code %s", i, occ.Code)
		}
		seen[occ.Code] = struct{}{}
		if occ.Title == "" {
			return fmt.Errorf("record %s: title is required", occ.Code)
		}
		if occ.SkillLevel < 1 || occ.SkillLevel > 4 {
			return fmt.Errorf("record %s: skill level must be between 1 and 4, got %d", occ.Code, occ.SkillLevel)
		}
	}
	return nil
}

// Pointers returns stable pointers into occs for use by the ranker.
func Pointers(occs []models.Occupation) []*models.Occupation {
	out := make([]*models.Occupation, len(occs))
	for i := range occs {
		out[i] = &occs[i]
	}
	return out
}

// Divisions returns the distinct divisions in the catalog sorted by code.
func Divisions(occs []models.Occupation) []models.Division {
	byCode := make(map[string]string)
	for _, occ := range occs {
		if _, ok := byCode[occ.Division]; !ok && occ.Division != "" {
			byCode[occ.Division] = occ.DivisionTitle
		}
	}
	out := make([]models.Division, 0, len(byCode))
	for code, title := range byCode {
		out = append(out, models.Division{Code: code, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Sectors returns the distinct sector labels sorted alphabetically.
func Sectors(occs []models.Occupation) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, occ := range occs {
		if occ.Sector == "" {
			continue
		}
		if _, ok := seen[occ.Sector]; ok {
			continue
		}
		seen[occ.Sector] = struct{}{}
		out = append(out, occ.Sector)
	}
	sort.Strings(out)
	return out
}
