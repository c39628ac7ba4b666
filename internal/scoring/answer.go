package scoring

import (
	"strings"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// SubmittedAnswer is the student's input for one question. Choice questions
// carry AnswerID, open text carries Text.
type SubmittedAnswer struct {
	AnswerID *uint
	Text     *string
}

// PointOverride carries the per-simulation point overrides from the
// SimulationQuestion join row, if any.
type PointOverride struct {
	CustomPoints         *float64
	CustomNegativePoints *float64
}

type ScoredAnswer struct {
	EarnedPoints float64
	Category     models.AnswerCategory
}

// EffectivePoints resolves the positive point value for a question:
// per-simulation override first, then the question's own points when the
// config says to use them, then the simulation-wide default.
func EffectivePoints(q *models.Question, cfg models.ScoringConfig, ov PointOverride) float64 {
	if ov.CustomPoints != nil {
		return *ov.CustomPoints
	}
	if cfg.UseQuestionPoints {
		return q.Points
	}
	return cfg.CorrectPoints
}

// EffectiveNegativePoints resolves the penalty symmetrically.
func EffectiveNegativePoints(q *models.Question, cfg models.ScoringConfig, ov PointOverride) float64 {
	if ov.CustomNegativePoints != nil {
		return *ov.CustomNegativePoints
	}
	if cfg.UseQuestionPoints {
		return q.NegativePoints
	}
	return cfg.WrongPoints
}

// ScoreAnswer scores one submitted answer. It is pure: callers persist the
// returned values. Open-text answers with content come back as pending with
// zero points until keyword or manual grading assigns a score.
func ScoreAnswer(q *models.Question, sub SubmittedAnswer, cfg models.ScoringConfig, ov PointOverride) ScoredAnswer {
	if q.Type == models.OpenText {
		if sub.Text == nil || strings.TrimSpace(*sub.Text) == "" {
			return ScoredAnswer{EarnedPoints: cfg.BlankPoints, Category: models.AnswerBlank}
		}
		return ScoredAnswer{EarnedPoints: 0, Category: models.AnswerPending}
	}

	if sub.AnswerID == nil {
		return ScoredAnswer{EarnedPoints: cfg.BlankPoints, Category: models.AnswerBlank}
	}

	if isCorrectOption(q, *sub.AnswerID) {
		return ScoredAnswer{EarnedPoints: EffectivePoints(q, cfg, ov), Category: models.AnswerCorrect}
	}
	return ScoredAnswer{EarnedPoints: EffectiveNegativePoints(q, cfg, ov), Category: models.AnswerWrong}
}

func isCorrectOption(q *models.Question, answerID uint) bool {
	for _, opt := range q.Answers {
		if opt.ID == answerID {
			return opt.IsCorrect
		}
	}
	return false
}
