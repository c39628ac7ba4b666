package repositories

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// SessionRepository handles in-progress attempt persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *models.SimulationSession) error
	GetByID(ctx context.Context, id uint) (*models.SimulationSession, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationSession, error)
	Update(ctx context.Context, session *models.SimulationSession) error

	// GetInProgress returns the open session for (student, simulation), or a
	// not-found error when none exists. At most one can exist.
	GetInProgress(ctx context.Context, simulationID uint, studentID string) (*models.SimulationSession, error)
	HasInProgress(ctx context.Context, simulationID uint, studentID string) (bool, error)

	UpsertAnswer(ctx context.Context, answer *models.SessionAnswer) error
	GetAnswers(ctx context.Context, sessionID uint) ([]*models.SessionAnswer, error)
}

// ResultRepository handles completed attempt persistence.
type ResultRepository interface {
	Create(ctx context.Context, result *models.SimulationResult) error
	GetByID(ctx context.Context, id uint) (*models.SimulationResult, error)
	GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationResult, error)
	List(ctx context.Context, filters ResultFilters) ([]*models.SimulationResult, int64, error)

	CountCompleted(ctx context.Context, simulationID uint, studentID string) (int, error)
	GetBySimulation(ctx context.Context, simulationID uint, filters ResultFilters) ([]*models.SimulationResult, int64, error)
	GetStats(ctx context.Context, simulationID uint) (*SimulationStats, error)

	// Re-grading is the only permitted mutation on a result.
	GetAnswer(ctx context.Context, resultID, questionID uint) (*models.ResultAnswer, error)
	UpdateAnswer(ctx context.Context, answer *models.ResultAnswer) error
	UpdateTotals(ctx context.Context, result *models.SimulationResult) error
}
