package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"gorm.io/gorm"
)

type SimulationPostgreSQL struct {
	db *gorm.DB
}

func (s *SimulationPostgreSQL) Create(ctx context.Context, sim *models.Simulation) error {
	return s.db.WithContext(ctx).Create(sim).Error
}

func (s *SimulationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Simulation, error) {
	var sim models.Simulation
	if err := s.db.WithContext(ctx).First(&sim, id).Error; err != nil {
		return nil, err
	}
	return &sim, nil
}

func (s *SimulationPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Simulation, error) {
	var sim models.Simulation
	if err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("simulation_questions.\"order\" ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Answers").
		Preload("Questions.Question.Keywords").
		First(&sim, id).Error; err != nil {
		return nil, err
	}
	return &sim, nil
}

func (s *SimulationPostgreSQL) Update(ctx context.Context, sim *models.Simulation) error {
	return s.db.WithContext(ctx).Save(sim).Error
}

func (s *SimulationPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Simulation{}, id).Error
}

func (s *SimulationPostgreSQL) List(ctx context.Context, filters repositories.SimulationFilters) ([]*models.Simulation, int64, error) {
	var sims []*models.Simulation
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Simulation{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.applyPaginationAndSort(query, filters)

	if err := query.Find(&sims).Error; err != nil {
		return nil, 0, err
	}

	return sims, total, nil
}

func (s *SimulationPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.SimulationStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Simulation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *SimulationPostgreSQL) HasResults(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.SimulationResult{}).
		Where("simulation_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SimulationPostgreSQL) GetQuestionCount(ctx context.Context, id uint) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.SimulationQuestion{}).
		Where("simulation_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *SimulationPostgreSQL) AddQuestion(ctx context.Context, sq *models.SimulationQuestion) error {
	return s.db.WithContext(ctx).Create(sq).Error
}

func (s *SimulationPostgreSQL) RemoveQuestion(ctx context.Context, simulationID, questionID uint) error {
	return s.db.WithContext(ctx).
		Where("simulation_id = ? AND question_id = ?", simulationID, questionID).
		Delete(&models.SimulationQuestion{}).Error
}

func (s *SimulationPostgreSQL) GetQuestions(ctx context.Context, simulationID uint) ([]*models.SimulationQuestion, error) {
	var questions []*models.SimulationQuestion
	if err := s.db.WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		Order("\"order\" ASC").
		Preload("Question").
		Preload("Question.Answers").
		Preload("Question.Keywords").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *SimulationPostgreSQL) UpdateQuestionOverride(ctx context.Context, simulationID, questionID uint, customPoints, customNegativePoints *float64) error {
	return s.db.WithContext(ctx).
		Model(&models.SimulationQuestion{}).
		Where("simulation_id = ? AND question_id = ?", simulationID, questionID).
		Updates(map[string]interface{}{
			"custom_points":          customPoints,
			"custom_negative_points": customNegativePoints,
		}).Error
}

func (s *SimulationPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SimulationFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}

func (s *SimulationPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SimulationFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "start_date", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
