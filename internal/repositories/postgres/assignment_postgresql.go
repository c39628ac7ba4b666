package postgres

import (
	"context"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"gorm.io/gorm"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.SimulationAssignment) error {
	return a.db.WithContext(ctx).Create(assignment).Error
}

func (a *AssignmentPostgreSQL) CreateBatch(ctx context.Context, assignments []*models.SimulationAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Create(assignments).Error
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SimulationAssignment, error) {
	var assignment models.SimulationAssignment
	if err := a.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) GetByIDWithSimulation(ctx context.Context, id uint) (*models.SimulationAssignment, error) {
	var assignment models.SimulationAssignment
	if err := a.db.WithContext(ctx).
		Preload("Simulation").
		First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.SimulationAssignment) error {
	return a.db.WithContext(ctx).Save(assignment).Error
}

func (a *AssignmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	return a.db.WithContext(ctx).Delete(&models.SimulationAssignment{}, id).Error
}

func (a *AssignmentPostgreSQL) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error) {
	var assignments []*models.SimulationAssignment
	var total int64

	query := a.db.WithContext(ctx).Model(&models.SimulationAssignment{})
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Preload("Simulation").Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (a *AssignmentPostgreSQL) GetForStudent(ctx context.Context, simulationID uint, studentID string) ([]*models.SimulationAssignment, error) {
	var assignments []*models.SimulationAssignment
	if err := a.db.WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		Where("student_id = ? OR group_id IN (?)",
			studentID,
			a.db.Model(&models.GroupMember{}).Select("group_id").Where("student_id = ?", studentID),
		).
		Preload("Simulation").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) GetBySimulation(ctx context.Context, simulationID uint, filters repositories.AssignmentFilters) ([]*models.SimulationAssignment, int64, error) {
	var assignments []*models.SimulationAssignment
	var total int64

	query := a.db.WithContext(ctx).
		Model(&models.SimulationAssignment{}).
		Where("simulation_id = ?", simulationID)
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Preload("Student").Preload("Group").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (a *AssignmentPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.AssignmentStatus) error {
	return a.db.WithContext(ctx).
		Model(&models.SimulationAssignment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (a *AssignmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AssignmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.GroupID != nil {
		query = query.Where("group_id = ?", *filters.GroupID)
	}
	return query
}
