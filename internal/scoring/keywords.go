package scoring

import (
	"strings"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// ScoreKeywords computes weighted partial credit for a free-text answer.
//
// Matching is a case-insensitive unanchored substring check: a keyword inside
// a larger word still counts. The return value is matchedWeight/totalWeight
// in [0,1]. It is nil when no automatic scoring is possible: an empty keyword
// list, or a set whose weights sum to zero.
//
// IsRequired keywords are not treated as a hard gate here; a missing required
// keyword reduces the score proportionally like any other.
func ScoreKeywords(answerText string, keywords []models.QuestionKeyword) *float64 {
	if len(keywords) == 0 {
		return nil
	}

	haystack := strings.ToLower(answerText)

	var totalWeight, matchedWeight float64
	for _, kw := range keywords {
		totalWeight += kw.Weight
		if strings.Contains(haystack, strings.ToLower(kw.Keyword)) {
			matchedWeight += kw.Weight
		}
	}

	if totalWeight == 0 {
		return nil
	}

	score := matchedWeight / totalWeight
	return &score
}
