package repositories

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// SimulationRepository handles simulation persistence.
type SimulationRepository interface {
	Create(ctx context.Context, sim *models.Simulation) error
	GetByID(ctx context.Context, id uint) (*models.Simulation, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Simulation, error)
	Update(ctx context.Context, sim *models.Simulation) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters SimulationFilters) ([]*models.Simulation, int64, error)

	UpdateStatus(ctx context.Context, id uint, status models.SimulationStatus) error
	HasResults(ctx context.Context, id uint) (bool, error)
	GetQuestionCount(ctx context.Context, id uint) (int, error)

	// Simulation question management
	AddQuestion(ctx context.Context, sq *models.SimulationQuestion) error
	RemoveQuestion(ctx context.Context, simulationID, questionID uint) error
	GetQuestions(ctx context.Context, simulationID uint) ([]*models.SimulationQuestion, error)
	UpdateQuestionOverride(ctx context.Context, simulationID, questionID uint, customPoints, customNegativePoints *float64) error
}

// QuestionRepository handles question persistence.
type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Question, error) // answers + keywords
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id uint) error
	GetKeywords(ctx context.Context, questionID uint) ([]models.QuestionKeyword, error)
}
