package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

// QuestionService handles question authoring. Students author questions for
// their personal quizzes; staff authors for everything else. A question is
// managed by its creator only, except for admins.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, userID string, role models.UserRole) (*models.Question, error)
	GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string, role models.UserRole) (*models.Question, error)
	Delete(ctx context.Context, id uint, userID string, role models.UserRole) error
}

type AnswerOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}

type KeywordRequest struct {
	Keyword    string  `json:"keyword" validate:"required,max=200"`
	Weight     float64 `json:"weight" validate:"min=0"`
	IsRequired bool    `json:"is_required"`
}

type CreateQuestionRequest struct {
	Text           string                `json:"text" validate:"required"`
	Type           models.QuestionType   `json:"type" validate:"required,question_type"`
	Points         float64               `json:"points" validate:"min=0"`
	NegativePoints float64               `json:"negative_points" validate:"max=0"`
	Explanation    *string               `json:"explanation"`
	Answers        []AnswerOptionRequest `json:"answers" validate:"dive"`
	Keywords       []KeywordRequest      `json:"keywords" validate:"dive"`
}

type UpdateQuestionRequest struct {
	Text           *string               `json:"text" validate:"omitempty,min=1"`
	Points         *float64              `json:"points" validate:"omitempty,min=0"`
	NegativePoints *float64              `json:"negative_points" validate:"omitempty,max=0"`
	Explanation    *string               `json:"explanation"`
	Answers        []AnswerOptionRequest `json:"answers" validate:"dive"`
	Keywords       []KeywordRequest      `json:"keywords" validate:"dive"`
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, userID string, role models.UserRole) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := &models.Question{
		Text:           req.Text,
		Type:           req.Type,
		Points:         req.Points,
		NegativePoints: req.NegativePoints,
		Explanation:    req.Explanation,
		CreatedBy:      userID,
		Answers:        buildAnswerOptions(req.Answers),
		Keywords:       buildKeywords(req.Keywords),
	}
	if question.Points == 0 {
		question.Points = 1
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, NewValidationError("question", err.Error(), nil)
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created",
		"question_id", question.ID, "type", question.Type, "user_id", userID)
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.Question, error) {
	question, err := s.repo.Question().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if !role.IsStaff() && question.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "question", "view", "not the creator")
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string, role models.UserRole) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.getManaged(ctx, id, userID, role, "update")
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.NegativePoints != nil {
		question.NegativePoints = *req.NegativePoints
	}
	if req.Explanation != nil {
		question.Explanation = req.Explanation
	}
	if req.Answers != nil {
		question.Answers = buildAnswerOptions(req.Answers)
	}
	if req.Keywords != nil {
		question.Keywords = buildKeywords(req.Keywords)
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, NewValidationError("question", err.Error(), nil)
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", id, "user_id", userID)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uint, userID string, role models.UserRole) error {
	if _, err := s.getManaged(ctx, id, userID, role, "delete"); err != nil {
		return err
	}

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", id, "user_id", userID)
	return nil
}

func (s *questionService) getManaged(ctx context.Context, id uint, userID string, role models.UserRole, action string) (*models.Question, error) {
	question, err := s.repo.Question().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if role != models.RoleAdmin && question.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "question", action, "not the creator")
	}
	return question, nil
}

func buildAnswerOptions(reqs []AnswerOptionRequest) []models.AnswerOption {
	options := make([]models.AnswerOption, len(reqs))
	for i, r := range reqs {
		options[i] = models.AnswerOption{
			Text:      r.Text,
			IsCorrect: r.IsCorrect,
			Order:     r.Order,
		}
	}
	return options
}

func buildKeywords(reqs []KeywordRequest) []models.QuestionKeyword {
	keywords := make([]models.QuestionKeyword, len(reqs))
	for i, r := range reqs {
		weight := r.Weight
		if weight == 0 {
			weight = 1
		}
		keywords[i] = models.QuestionKeyword{
			Keyword:    r.Keyword,
			Weight:     weight,
			IsRequired: r.IsRequired,
		}
	}
	return keywords
}
