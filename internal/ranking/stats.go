package ranking

import (
	"github.com/hyperjump/shokugyo/internal/models"
	"github.com/hyperjump/shokugyo/pkg/utils"
)

// HighConfidenceThreshold is the confidence at or above which a result counts as high.
const HighConfidenceThreshold = 0.7

// Summarize computes display statistics for a result list. It returns nil for no results.
func Summarize(results []*models.SearchResult) *models.ResultStats {
	if len(results) == 0 {
		return nil
	}
	stats := &models.ResultStats{Total: len(results)}

	confidences := make([]float64, len(results))
	counts := make(map[string]int)
	var order []string
	for i, res := range results {
		confidences[i] = res.Confidence
		if res.Confidence >= HighConfidenceThreshold {
			stats.HighConfidence++
		}
		title := res.Occupation.DivisionTitle
		if _, ok := counts[title]; !ok {
			order = append(order, title)
		}
		counts[title]++
	}
	stats.AverageConfidence = utils.Mean(confidences)

	// Ties go to the division seen first.
	for _, title := range order {
		if counts[title] > stats.TopDivisionMatches {
			stats.TopDivisionTitle = title
			stats.TopDivisionMatches = counts[title]
		}
	}
	return stats
}
