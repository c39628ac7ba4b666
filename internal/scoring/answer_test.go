package scoring

import (
	"testing"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(v float64) *float64 {
	return &v
}

func choiceQuestion() *models.Question {
	return &models.Question{
		ID:             10,
		Type:           models.SingleChoice,
		Points:         3,
		NegativePoints: -1,
		Answers: []models.AnswerOption{
			{ID: 1, IsCorrect: false},
			{ID: 2, IsCorrect: true},
			{ID: 3, IsCorrect: false},
		},
	}
}

func TestScoreAnswer_Choice(t *testing.T) {
	cfg := models.ScoringConfig{CorrectPoints: 1, WrongPoints: -0.25, BlankPoints: 0}

	t.Run("correct answer earns config points", func(t *testing.T) {
		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(2)}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerCorrect, got.Category)
		assert.Equal(t, 1.0, got.EarnedPoints)
	})

	t.Run("wrong answer earns config penalty", func(t *testing.T) {
		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(3)}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerWrong, got.Category)
		assert.Equal(t, -0.25, got.EarnedPoints)
	})

	t.Run("blank answer earns blank points", func(t *testing.T) {
		blankCfg := cfg
		blankCfg.BlankPoints = 0.5
		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{}, blankCfg, PointOverride{})
		assert.Equal(t, models.AnswerBlank, got.Category)
		assert.Equal(t, 0.5, got.EarnedPoints)
	})

	t.Run("unknown answer id counts as wrong", func(t *testing.T) {
		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(99)}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerWrong, got.Category)
	})

	t.Run("question points used when config says so", func(t *testing.T) {
		qCfg := cfg
		qCfg.UseQuestionPoints = true

		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(2)}, qCfg, PointOverride{})
		assert.Equal(t, 3.0, got.EarnedPoints)

		got = ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(1)}, qCfg, PointOverride{})
		assert.Equal(t, -1.0, got.EarnedPoints)
	})

	t.Run("custom points override everything", func(t *testing.T) {
		ov := PointOverride{CustomPoints: floatPtr(2.0), CustomNegativePoints: floatPtr(-0.5)}

		got := ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(2)}, cfg, ov)
		assert.Equal(t, models.AnswerCorrect, got.Category)
		assert.Equal(t, 2.0, got.EarnedPoints)

		qCfg := cfg
		qCfg.UseQuestionPoints = true
		got = ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(2)}, qCfg, ov)
		assert.Equal(t, 2.0, got.EarnedPoints, "override beats question points too")

		got = ScoreAnswer(choiceQuestion(), SubmittedAnswer{AnswerID: uintPtr(1)}, cfg, ov)
		assert.Equal(t, -0.5, got.EarnedPoints)
	})
}

func TestScoreAnswer_OpenText(t *testing.T) {
	cfg := models.ScoringConfig{CorrectPoints: 1, BlankPoints: 0}
	q := &models.Question{ID: 20, Type: models.OpenText, Points: 5}

	t.Run("missing text is blank", func(t *testing.T) {
		got := ScoreAnswer(q, SubmittedAnswer{}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerBlank, got.Category)
	})

	t.Run("whitespace-only text is blank", func(t *testing.T) {
		got := ScoreAnswer(q, SubmittedAnswer{Text: strPtr("   \n\t ")}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerBlank, got.Category)
		assert.Equal(t, cfg.BlankPoints, got.EarnedPoints)
	})

	t.Run("real text is pending with zero points", func(t *testing.T) {
		got := ScoreAnswer(q, SubmittedAnswer{Text: strPtr("la risposta")}, cfg, PointOverride{})
		assert.Equal(t, models.AnswerPending, got.Category)
		assert.Equal(t, 0.0, got.EarnedPoints)
	})
}

func TestEffectivePoints(t *testing.T) {
	q := choiceQuestion()

	assert.Equal(t, 1.5, EffectivePoints(q, models.ScoringConfig{CorrectPoints: 1.5}, PointOverride{}))
	assert.Equal(t, 3.0, EffectivePoints(q, models.ScoringConfig{CorrectPoints: 1.5, UseQuestionPoints: true}, PointOverride{}))
	assert.Equal(t, 9.0, EffectivePoints(q, models.ScoringConfig{CorrectPoints: 1.5}, PointOverride{CustomPoints: floatPtr(9)}))
}
