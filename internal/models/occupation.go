// Package models defines core data structures for occupations, queries, results, and audit entries.
package models

// Occupation is one classified job entry in the catalog. Records are loaded once
// and never mutated after the engine is built.
type Occupation struct {
	Code          string   `json:"code" yaml:"code"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Division      string   `json:"division" yaml:"division"`
	DivisionTitle string   `json:"division_title" yaml:"division_title"`
	Group         string   `json:"group" yaml:"group"`
	GroupTitle    string   `json:"group_title" yaml:"group_title"`
	SubGroup      string   `json:"sub_group" yaml:"sub_group"`
	SubGroupTitle string   `json:"sub_group_title" yaml:"sub_group_title"`
	Sector        string   `json:"sector" yaml:"sector"`
	Keywords      []string `json:"keywords" yaml:"keywords"`
	SkillLevel    int      `json:"skill_level" yaml:"skill_level"`
	Tasks         []string `json:"tasks" yaml:"tasks"`
}

// Division is a top-level classification group offered as a filter option.
type Division struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}
