package scoring

import (
	"testing"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreKeywords(t *testing.T) {
	t.Run("weighted partial credit", func(t *testing.T) {
		keywords := []models.QuestionKeyword{
			{Keyword: "fotosintesi", Weight: 0.5},
			{Keyword: "clorofilla", Weight: 0.3},
			{Keyword: "ossigeno", Weight: 0.2},
		}

		score := ScoreKeywords("La fotosintesi produce ossigeno", keywords)
		require.NotNil(t, score)
		assert.InDelta(t, 0.7, *score, 1e-9)
	})

	t.Run("empty keyword list yields nil", func(t *testing.T) {
		assert.Nil(t, ScoreKeywords("qualunque testo", nil))
		assert.Nil(t, ScoreKeywords("qualunque testo", []models.QuestionKeyword{}))
	})

	t.Run("zero total weight yields nil", func(t *testing.T) {
		keywords := []models.QuestionKeyword{
			{Keyword: "alfa", Weight: 0},
			{Keyword: "beta", Weight: 0},
		}
		assert.Nil(t, ScoreKeywords("alfa beta", keywords))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		keywords := []models.QuestionKeyword{{Keyword: "Ossigeno", Weight: 1}}
		score := ScoreKeywords("produce OSSIGENO in abbondanza", keywords)
		require.NotNil(t, score)
		assert.Equal(t, 1.0, *score)
	})

	t.Run("substring inside a larger word counts", func(t *testing.T) {
		keywords := []models.QuestionKeyword{{Keyword: "sintesi", Weight: 1}}
		score := ScoreKeywords("la fotosintesi clorofilliana", keywords)
		require.NotNil(t, score)
		assert.Equal(t, 1.0, *score)
	})

	t.Run("no matches gives zero score not nil", func(t *testing.T) {
		keywords := []models.QuestionKeyword{{Keyword: "mitocondri", Weight: 1}}
		score := ScoreKeywords("una risposta fuori tema", keywords)
		require.NotNil(t, score)
		assert.Equal(t, 0.0, *score)
	})

	t.Run("required keywords score proportionally like the rest", func(t *testing.T) {
		keywords := []models.QuestionKeyword{
			{Keyword: "fotosintesi", Weight: 0.6, IsRequired: true},
			{Keyword: "ossigeno", Weight: 0.4},
		}
		score := ScoreKeywords("produce ossigeno", keywords)
		require.NotNil(t, score)
		assert.InDelta(t, 0.4, *score, 1e-9)
	})
}
