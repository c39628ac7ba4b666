package repositories

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// AssignmentRepository handles simulation assignment persistence.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.SimulationAssignment) error
	CreateBatch(ctx context.Context, assignments []*models.SimulationAssignment) error
	GetByID(ctx context.Context, id uint) (*models.SimulationAssignment, error)
	GetByIDWithSimulation(ctx context.Context, id uint) (*models.SimulationAssignment, error)
	Update(ctx context.Context, assignment *models.SimulationAssignment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters AssignmentFilters) ([]*models.SimulationAssignment, int64, error)

	// GetForStudent returns the assignments granting studentID access to
	// simulationID, both direct and through group membership, with the
	// simulation preloaded.
	GetForStudent(ctx context.Context, simulationID uint, studentID string) ([]*models.SimulationAssignment, error)
	GetBySimulation(ctx context.Context, simulationID uint, filters AssignmentFilters) ([]*models.SimulationAssignment, int64, error)

	UpdateStatus(ctx context.Context, id uint, status models.AssignmentStatus) error
}
