package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
)

// ResultService reads completed attempts. Mutation lives in GradingService.
type ResultService interface {
	GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.SimulationResult, error)
	ListForStudent(ctx context.Context, studentID string, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error)
	ListBySimulation(ctx context.Context, simulationID uint, filters repositories.ResultFilters, userID string, role models.UserRole) ([]*models.SimulationResult, int64, error)
}

type resultService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewResultService(repo repositories.Repository, logger *slog.Logger) ResultService {
	return &resultService{
		repo:   repo,
		logger: logger,
	}
}

func (s *resultService) GetByID(ctx context.Context, id uint, userID string, role models.UserRole) (*models.SimulationResult, error) {
	result, err := s.repo.Result().GetByIDWithAnswers(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if result.StudentID != userID && !role.IsStaff() {
		return nil, NewPermissionError(userID, id, "result", "view", "not the owner")
	}
	return result, nil
}

func (s *resultService) ListForStudent(ctx context.Context, studentID string, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error) {
	filters.StudentID = &studentID

	results, total, err := s.repo.Result().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list results: %w", err)
	}
	return results, total, nil
}

func (s *resultService) ListBySimulation(ctx context.Context, simulationID uint, filters repositories.ResultFilters, userID string, role models.UserRole) ([]*models.SimulationResult, int64, error) {
	if !role.IsStaff() {
		return nil, 0, NewPermissionError(userID, simulationID, "result", "list", "staff only")
	}

	results, total, err := s.repo.Result().GetBySimulation(ctx, simulationID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list simulation results: %w", err)
	}
	return results, total, nil
}
