package ranking

// RankingConfig holds the field weights, bonuses, and calibration used by the scorer.
type RankingConfig struct {
	// Jaccard similarity weights per field
	TitleWeight       float64 `yaml:"title_weight"`       // default: 3.0
	KeywordWeight     float64 `yaml:"keyword_weight"`     // default: 2.5
	DescriptionWeight float64 `yaml:"description_weight"` // default: 1.5
	TaskWeight        float64 `yaml:"task_weight"`        // default: 1.0

	// Term-rarity (TF-IDF) weight
	TFIDFWeight float64 `yaml:"tfidf_weight"` // default: 2.0

	// Raw query substring bonuses
	ExactTitleBonus   float64 `yaml:"exact_title_bonus"`   // default: 2.0
	ExactKeywordBonus float64 `yaml:"exact_keyword_bonus"` // default: 1.5

	// ConfidenceScale divides the raw score to get confidence. It is the scorer's
	// practical upper bound for realistic queries, not a proven maximum.
	ConfidenceScale float64 `yaml:"confidence_scale"` // default: 15
}

// DefaultRankingConfig returns the default ranking configuration.
func DefaultRankingConfig() *RankingConfig {
	return &RankingConfig{
		TitleWeight:       3.0,
		KeywordWeight:     2.5,
		DescriptionWeight: 1.5,
		TaskWeight:        1.0,

		TFIDFWeight: 2.0,

		ExactTitleBonus:   2.0,
		ExactKeywordBonus: 1.5,

		ConfidenceScale: 15,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *RankingConfig) ApplyDefaults() {
	defaults := DefaultRankingConfig()

	if c.TitleWeight == 0 {
		c.TitleWeight = defaults.TitleWeight
	}
	if c.KeywordWeight == 0 {
		c.KeywordWeight = defaults.KeywordWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = defaults.DescriptionWeight
	}
	if c.TaskWeight == 0 {
		c.TaskWeight = defaults.TaskWeight
	}

	if c.TFIDFWeight == 0 {
		c.TFIDFWeight = defaults.TFIDFWeight
	}

	if c.ExactTitleBonus == 0 {
		c.ExactTitleBonus = defaults.ExactTitleBonus
	}
	if c.ExactKeywordBonus == 0 {
		c.ExactKeywordBonus = defaults.ExactKeywordBonus
	}

	if c.ConfidenceScale <= 0 {
		c.ConfidenceScale = defaults.ConfidenceScale
	}
}
