package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/validator"
)

// SimulationService manages the simulation catalog: CRUD, the status
// lifecycle and the question list with per-simulation overrides.
type SimulationService interface {
	Create(ctx context.Context, req *CreateSimulationRequest, userID string, role models.UserRole) (*models.Simulation, error)
	GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.Simulation, error)
	List(ctx context.Context, filters repositories.SimulationFilters, userID string, role models.UserRole) ([]*models.Simulation, int64, error)
	Update(ctx context.Context, id uint, req *UpdateSimulationRequest, userID string, role models.UserRole) (*models.Simulation, error)
	Delete(ctx context.Context, id uint, force bool, userID string, role models.UserRole) error

	Publish(ctx context.Context, id uint, userID string, role models.UserRole) error
	Archive(ctx context.Context, id uint, userID string, role models.UserRole) error

	AddQuestion(ctx context.Context, simulationID uint, req *AddSimulationQuestionRequest, userID string, role models.UserRole) error
	RemoveQuestion(ctx context.Context, simulationID, questionID uint, userID string, role models.UserRole) error
	UpdateQuestionOverride(ctx context.Context, simulationID, questionID uint, req *QuestionOverrideRequest, userID string, role models.UserRole) error
	GetQuestions(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]*models.SimulationQuestion, error)

	GetStats(ctx context.Context, simulationID uint, userID string, role models.UserRole) (*repositories.SimulationStats, error)
}

// ===== REQUEST STRUCTURES =====

type CreateSimulationRequest struct {
	Title        string                      `json:"title" validate:"required,min=1,max=200"`
	Description  *string                     `json:"description" validate:"omitempty,max=2000"`
	Type         models.SimulationType       `json:"type" validate:"required,simulation_type"`
	Visibility   models.SimulationVisibility `json:"visibility" validate:"omitempty,oneof=PRIVATE GROUP PUBLIC"`
	IsRepeatable bool                        `json:"is_repeatable"`
	MaxAttempts  *int                        `json:"max_attempts" validate:"omitempty,min=1"`
	StartDate    *time.Time                  `json:"start_date"`
	EndDate      *time.Time                  `json:"end_date"`
	Scoring      *models.ScoringConfig       `json:"scoring"`
}

type UpdateSimulationRequest struct {
	Title        *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string               `json:"description" validate:"omitempty,max=2000"`
	IsRepeatable *bool                 `json:"is_repeatable"`
	MaxAttempts  *int                  `json:"max_attempts" validate:"omitempty,min=1"`
	StartDate    *time.Time            `json:"start_date"`
	EndDate      *time.Time            `json:"end_date"`
	Scoring      *models.ScoringConfig `json:"scoring"`
}

type AddSimulationQuestionRequest struct {
	QuestionID           uint     `json:"question_id" validate:"required"`
	Order                int      `json:"order"`
	CustomPoints         *float64 `json:"custom_points"`
	CustomNegativePoints *float64 `json:"custom_negative_points"`
}

type QuestionOverrideRequest struct {
	CustomPoints         *float64 `json:"custom_points"`
	CustomNegativePoints *float64 `json:"custom_negative_points"`
}

// statusTransitions lists the permitted lifecycle moves. Unpublishing back to
// draft is handled separately because it also requires that no results exist.
var statusTransitions = map[models.SimulationStatus][]models.SimulationStatus{
	models.SimulationDraft:     {models.SimulationPublished},
	models.SimulationPublished: {models.SimulationArchived, models.SimulationDraft},
	models.SimulationArchived:  {models.SimulationPublished},
}

func canTransition(from, to models.SimulationStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type simulationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewSimulationService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, notifier NotificationEventService) SimulationService {
	return &simulationService{
		repo:      repo,
		logger:    logger,
		validator: v,
		notifier:  notifier,
	}
}

// ===== CRUD =====

func (s *simulationService) Create(ctx context.Context, req *CreateSimulationRequest, userID string, role models.UserRole) (*models.Simulation, error) {
	s.logger.Info("Creating simulation", "title", req.Title, "type", req.Type, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Students may only build personal simulations; everything else is staff.
	if !role.IsStaff() && req.Type != models.SimulationPersonal {
		return nil, NewPermissionError(userID, 0, "simulation", "create", "students may only create personal simulations")
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, NewValidationError("end_date", "must not precede start_date", req.EndDate)
	}

	sim := &models.Simulation{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Status:       models.SimulationDraft,
		Visibility:   req.Visibility,
		IsRepeatable: req.IsRepeatable,
		MaxAttempts:  req.MaxAttempts,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CreatedBy:    userID,
	}
	if req.Visibility == "" {
		sim.Visibility = models.VisibilityPrivate
	}
	if req.Scoring != nil {
		sim.Scoring = *req.Scoring
	} else {
		sim.Scoring = models.ScoringConfig{CorrectPoints: 1}
	}

	if err := s.repo.Simulation().Create(ctx, sim); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	s.logger.Info("Simulation created", "simulation_id", sim.ID, "user_id", userID)
	return sim, nil
}

func (s *simulationService) GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.Simulation, error) {
	sim, err := s.repo.Simulation().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	if err := s.checkViewPermission(sim, userID, role); err != nil {
		return nil, err
	}

	sim.QuestionsCount = len(sim.Questions)
	return sim, nil
}

func (s *simulationService) List(ctx context.Context, filters repositories.SimulationFilters, userID string, role models.UserRole) ([]*models.Simulation, int64, error) {
	// Students only ever see their own personal simulations through this
	// listing; assigned official simulations arrive via assignments.
	if !role.IsStaff() {
		filters.CreatedBy = &userID
	}

	sims, total, err := s.repo.Simulation().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list simulations: %w", err)
	}
	return sims, total, nil
}

func (s *simulationService) Update(ctx context.Context, id uint, req *UpdateSimulationRequest, userID string, role models.UserRole) (*models.Simulation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sim, err := s.getManaged(ctx, id, userID, role, "update")
	if err != nil {
		return nil, err
	}

	if sim.Status == models.SimulationArchived {
		return nil, ErrSimulationNotEditable
	}

	if req.Title != nil {
		sim.Title = *req.Title
	}
	if req.Description != nil {
		sim.Description = req.Description
	}
	if req.IsRepeatable != nil {
		sim.IsRepeatable = *req.IsRepeatable
	}
	if req.MaxAttempts != nil {
		sim.MaxAttempts = req.MaxAttempts
	}
	if req.StartDate != nil {
		sim.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		sim.EndDate = req.EndDate
	}
	if req.Scoring != nil {
		sim.Scoring = *req.Scoring
	}

	if sim.StartDate != nil && sim.EndDate != nil && sim.EndDate.Before(*sim.StartDate) {
		return nil, NewValidationError("end_date", "must not precede start_date", sim.EndDate)
	}

	if err := s.repo.Simulation().Update(ctx, sim); err != nil {
		return nil, fmt.Errorf("failed to update simulation: %w", err)
	}

	s.logger.Info("Simulation updated", "simulation_id", id, "user_id", userID)
	return sim, nil
}

func (s *simulationService) Delete(ctx context.Context, id uint, force bool, userID string, role models.UserRole) error {
	sim, err := s.getManaged(ctx, id, userID, role, "delete")
	if err != nil {
		return err
	}

	hasResults, err := s.repo.Simulation().HasResults(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check results: %w", err)
	}

	// Results are student work; only an admin may force them away.
	if hasResults {
		if !force {
			return ErrSimulationNotDeletable
		}
		if role != models.RoleAdmin {
			return NewPermissionError(userID, id, "simulation", "force-delete", "only admins may delete simulations with results")
		}
	}

	if err := s.repo.Simulation().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}

	s.logger.Info("Simulation deleted", "simulation_id", id, "user_id", userID, "forced", force, "title", sim.Title)
	return nil
}

// ===== LIFECYCLE =====

func (s *simulationService) Publish(ctx context.Context, id uint, userID string, role models.UserRole) error {
	sim, err := s.getManaged(ctx, id, userID, role, "publish")
	if err != nil {
		return err
	}

	if !canTransition(sim.Status, models.SimulationPublished) {
		return ErrSimulationInvalidStatus
	}

	count, err := s.repo.Simulation().GetQuestionCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return ErrSimulationNoQuestions
	}

	if err := s.repo.Simulation().UpdateStatus(ctx, id, models.SimulationPublished); err != nil {
		return fmt.Errorf("failed to publish simulation: %w", err)
	}

	s.logger.Info("Simulation published", "simulation_id", id, "user_id", userID)

	if err := s.notifier.NotifySimulationPublished(ctx, id, userID); err != nil {
		// Publishing the simulation succeeded; a lost notification is not
		// worth failing the request over.
		s.logger.Warn("Failed to send publish notification", "simulation_id", id, "error", err)
	}

	return nil
}

func (s *simulationService) Archive(ctx context.Context, id uint, userID string, role models.UserRole) error {
	sim, err := s.getManaged(ctx, id, userID, role, "archive")
	if err != nil {
		return err
	}

	if !canTransition(sim.Status, models.SimulationArchived) {
		return ErrSimulationInvalidStatus
	}

	if err := s.repo.Simulation().UpdateStatus(ctx, id, models.SimulationArchived); err != nil {
		return fmt.Errorf("failed to archive simulation: %w", err)
	}

	s.logger.Info("Simulation archived", "simulation_id", id, "user_id", userID)
	return nil
}

// ===== QUESTION MANAGEMENT =====

func (s *simulationService) AddQuestion(ctx context.Context, simulationID uint, req *AddSimulationQuestionRequest, userID string, role models.UserRole) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	sim, err := s.getManaged(ctx, simulationID, userID, role, "edit")
	if err != nil {
		return err
	}
	if sim.Status != models.SimulationDraft {
		return ErrSimulationNotEditable
	}

	question, err := s.repo.Question().GetByIDWithDetails(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return NewValidationError("question_id", err.Error(), req.QuestionID)
	}

	sq := &models.SimulationQuestion{
		SimulationID:         simulationID,
		QuestionID:           req.QuestionID,
		Order:                req.Order,
		CustomPoints:         req.CustomPoints,
		CustomNegativePoints: req.CustomNegativePoints,
	}
	if err := s.repo.Simulation().AddQuestion(ctx, sq); err != nil {
		return fmt.Errorf("failed to add question to simulation: %w", err)
	}

	s.logger.Info("Question added to simulation",
		"simulation_id", simulationID, "question_id", req.QuestionID, "user_id", userID)
	return nil
}

func (s *simulationService) RemoveQuestion(ctx context.Context, simulationID, questionID uint, userID string, role models.UserRole) error {
	sim, err := s.getManaged(ctx, simulationID, userID, role, "edit")
	if err != nil {
		return err
	}
	if sim.Status != models.SimulationDraft {
		return ErrSimulationNotEditable
	}

	if err := s.repo.Simulation().RemoveQuestion(ctx, simulationID, questionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotInSim
		}
		return fmt.Errorf("failed to remove question: %w", err)
	}

	s.logger.Info("Question removed from simulation",
		"simulation_id", simulationID, "question_id", questionID, "user_id", userID)
	return nil
}

func (s *simulationService) UpdateQuestionOverride(ctx context.Context, simulationID, questionID uint, req *QuestionOverrideRequest, userID string, role models.UserRole) error {
	sim, err := s.getManaged(ctx, simulationID, userID, role, "edit")
	if err != nil {
		return err
	}
	if sim.Status == models.SimulationArchived {
		return ErrSimulationNotEditable
	}

	if err := s.repo.Simulation().UpdateQuestionOverride(ctx, simulationID, questionID, req.CustomPoints, req.CustomNegativePoints); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotInSim
		}
		return fmt.Errorf("failed to update question override: %w", err)
	}

	s.logger.Info("Question override updated",
		"simulation_id", simulationID, "question_id", questionID, "user_id", userID)
	return nil
}

func (s *simulationService) GetQuestions(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]*models.SimulationQuestion, error) {
	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	if err := s.checkViewPermission(sim, userID, role); err != nil {
		return nil, err
	}

	questions, err := s.repo.Simulation().GetQuestions(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation questions: %w", err)
	}
	return questions, nil
}

func (s *simulationService) GetStats(ctx context.Context, simulationID uint, userID string, role models.UserRole) (*repositories.SimulationStats, error) {
	if _, err := s.getManaged(ctx, simulationID, userID, role, "view stats of"); err != nil {
		return nil, err
	}

	stats, err := s.repo.Result().GetStats(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation stats: %w", err)
	}
	return stats, nil
}

// ===== PERMISSION HELPERS =====

// getManaged loads a simulation and verifies the caller may manage it.
func (s *simulationService) getManaged(ctx context.Context, id uint, userID string, role models.UserRole, action string) (*models.Simulation, error) {
	sim, err := s.repo.Simulation().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSimulationNotFound
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	if role != models.RoleAdmin && sim.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "simulation", action, "not the creator")
	}
	return sim, nil
}

func (s *simulationService) checkViewPermission(sim *models.Simulation, userID string, role models.UserRole) error {
	if role.IsStaff() || sim.CreatedBy == userID {
		return nil
	}
	if sim.Visibility == models.VisibilityPublic && sim.Status == models.SimulationPublished {
		return nil
	}
	// Assigned students reach published simulations through the session
	// endpoints, which check assignments; direct catalog reads stay closed.
	return NewPermissionError(userID, sim.ID, "simulation", "view", "not visible to this user")
}
