package validator

import (
	"fmt"
	"strings"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object, including the
// type-specific constraints on its options and keywords.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Text) == "" {
		return fmt.Errorf("question text is required")
	}

	if question.Points < 0 || question.Points > 100 {
		return fmt.Errorf("question points must be between 0 and 100")
	}

	if question.NegativePoints > 0 {
		return fmt.Errorf("negative points must be zero or below")
	}

	switch question.Type {
	case models.SingleChoice, models.MultipleChoice:
		return v.validateChoiceOptions(question)
	case models.TrueFalse:
		return v.validateTrueFalseOptions(question)
	case models.OpenText:
		return v.validateKeywords(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

func (v *QuestionValidator) validateChoiceOptions(question *models.Question) error {
	if len(question.Answers) < 2 {
		return fmt.Errorf("choice question needs at least 2 options")
	}

	correct := 0
	for _, opt := range question.Answers {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("answer option text is required")
		}
		if opt.IsCorrect {
			correct++
		}
	}

	if correct == 0 {
		return fmt.Errorf("choice question needs at least one correct option")
	}
	if question.Type == models.SingleChoice && correct > 1 {
		return fmt.Errorf("single choice question must have exactly one correct option")
	}

	return nil
}

func (v *QuestionValidator) validateTrueFalseOptions(question *models.Question) error {
	if len(question.Answers) != 2 {
		return fmt.Errorf("true/false question must have exactly 2 options")
	}

	correct := 0
	for _, opt := range question.Answers {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("true/false question must have exactly one correct option")
	}

	return nil
}

// validateKeywords checks the open-text keyword list. Keywords are optional;
// when present each needs text and a non-negative weight, and at least one
// weight must be positive for auto-grading to produce a score.
func (v *QuestionValidator) validateKeywords(question *models.Question) error {
	if len(question.Keywords) == 0 {
		return nil
	}

	totalWeight := 0.0
	for _, kw := range question.Keywords {
		if strings.TrimSpace(kw.Keyword) == "" {
			return fmt.Errorf("keyword text is required")
		}
		if kw.Weight < 0 {
			return fmt.Errorf("keyword weight must not be negative")
		}
		totalWeight += kw.Weight
	}

	if totalWeight == 0 {
		return fmt.Errorf("at least one keyword must carry a positive weight")
	}

	return nil
}
