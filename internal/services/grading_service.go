package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/scoring"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

// GradingService handles manual re-grading of open-text answers. Results are
// otherwise immutable.
type GradingService interface {
	GradeAnswer(ctx context.Context, resultID, questionID uint, req *GradeAnswerRequest, userID string, role models.UserRole) (*models.ResultAnswer, error)
	ListPending(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]*models.SimulationResult, error)
}

type GradeAnswerRequest struct {
	Points   float64 `json:"points"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}

type gradingService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewGradingService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, notifier NotificationEventService) GradingService {
	return &gradingService{
		repo:      repo,
		logger:    logger,
		validator: v,
		notifier:  notifier,
	}
}

func (s *gradingService) GradeAnswer(ctx context.Context, resultID, questionID uint, req *GradeAnswerRequest, userID string, role models.UserRole) (*models.ResultAnswer, error) {
	s.logger.Info("Grading answer",
		"result_id", resultID, "question_id", questionID, "grader_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, NewPermissionError(userID, resultID, "result", "grade", "staff only")
	}

	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question.Type != models.OpenText {
		return nil, ErrRegradeNotAllowed
	}

	answer, err := s.repo.Result().GetAnswer(ctx, resultID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result answer: %w", err)
	}

	maxPoints := s.effectivePoints(ctx, result.SimulationID, question)
	if req.Points < 0 || req.Points > maxPoints {
		return nil, ErrInvalidScore
	}

	oldPoints := answer.EarnedPoints
	oldCategory := answer.Category
	now := time.Now()

	answer.EarnedPoints = req.Points
	if req.Points > 0 {
		answer.Category = models.AnswerCorrect
	} else {
		answer.Category = models.AnswerWrong
	}
	answer.GradedBy = &userID
	answer.GradedAt = &now
	answer.Feedback = req.Feedback

	// Shift the result totals by the delta instead of rescoring everything.
	result.TotalScore += answer.EarnedPoints - oldPoints
	adjustCategoryCount(result, oldCategory, -1)
	adjustCategoryCount(result, answer.Category, +1)

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Result().UpdateAnswer(ctx, answer); err != nil {
			return fmt.Errorf("failed to update answer: %w", err)
		}
		if err := tx.Result().UpdateTotals(ctx, result); err != nil {
			return fmt.Errorf("failed to update result totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Answer graded",
		"result_id", resultID, "question_id", questionID,
		"points", req.Points, "grader_id", userID)

	if err := s.notifier.NotifyResultRegraded(ctx, result, questionID, req.Points, userID); err != nil {
		s.logger.Warn("Failed to send regrade notification",
			"result_id", resultID, "error", err)
	}

	return answer, nil
}

func (s *gradingService) ListPending(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]*models.SimulationResult, error) {
	if !role.IsStaff() {
		return nil, NewPermissionError(userID, simulationID, "result", "list pending", "staff only")
	}

	results, _, err := s.repo.Result().GetBySimulation(ctx, simulationID, repositories.ResultFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	pending := make([]*models.SimulationResult, 0)
	for _, r := range results {
		if r.PendingCount > 0 {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// effectivePoints resolves the grading ceiling for a question inside a
// simulation, honoring per-simulation overrides and the scoring config.
func (s *gradingService) effectivePoints(ctx context.Context, simulationID uint, question *models.Question) float64 {
	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		s.logger.Warn("Failed to load simulation for grading ceiling, using question points",
			"simulation_id", simulationID, "error", err)
		return question.Points
	}

	override := scoring.PointOverride{}
	if questions, err := s.repo.Simulation().GetQuestions(ctx, simulationID); err == nil {
		for _, sq := range questions {
			if sq.QuestionID == question.ID {
				override.CustomPoints = sq.CustomPoints
				override.CustomNegativePoints = sq.CustomNegativePoints
				break
			}
		}
	}

	return scoring.EffectivePoints(question, sim.Scoring, override)
}

func adjustCategoryCount(result *models.SimulationResult, category models.AnswerCategory, delta int) {
	switch category {
	case models.AnswerCorrect:
		result.CorrectCount += delta
	case models.AnswerWrong:
		result.WrongCount += delta
	case models.AnswerBlank:
		result.BlankCount += delta
	case models.AnswerPending:
		result.PendingCount += delta
	}
}
