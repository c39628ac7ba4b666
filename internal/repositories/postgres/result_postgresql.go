package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.SimulationResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SimulationResult, error) {
	var result models.SimulationResult
	if err := r.db.WithContext(ctx).Preload("Simulation").First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) GetByIDWithAnswers(ctx context.Context, id uint) (*models.SimulationResult, error) {
	var result models.SimulationResult
	if err := r.db.WithContext(ctx).
		Preload("Simulation").
		Preload("Answers").
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error) {
	var results []*models.SimulationResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SimulationResult{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applyPaginationAndSort(query, filters)

	if err := query.Preload("Simulation").Preload("Student").Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *ResultPostgreSQL) CountCompleted(ctx context.Context, simulationID uint, studentID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SimulationResult{}).
		Where("simulation_id = ? AND student_id = ?", simulationID, studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *ResultPostgreSQL) GetBySimulation(ctx context.Context, simulationID uint, filters repositories.ResultFilters) ([]*models.SimulationResult, int64, error) {
	filters.SimulationID = &simulationID
	return r.List(ctx, filters)
}

func (r *ResultPostgreSQL) GetStats(ctx context.Context, simulationID uint) (*repositories.SimulationStats, error) {
	var stats repositories.SimulationStats

	row := r.db.WithContext(ctx).
		Model(&models.SimulationResult{}).
		Select("COUNT(*), COALESCE(AVG(total_score), 0), COALESCE(MAX(total_score), 0), COALESCE(MIN(total_score), 0), COALESCE(SUM(pending_count), 0), COUNT(DISTINCT student_id)").
		Where("simulation_id = ?", simulationID).
		Row()

	if err := row.Scan(&stats.TotalResults, &stats.AverageScore, &stats.BestScore,
		&stats.WorstScore, &stats.PendingCount, &stats.StudentsCount); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *ResultPostgreSQL) GetAnswer(ctx context.Context, resultID, questionID uint) (*models.ResultAnswer, error) {
	var answer models.ResultAnswer
	if err := r.db.WithContext(ctx).
		Where("result_id = ? AND question_id = ?", resultID, questionID).
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *ResultPostgreSQL) UpdateAnswer(ctx context.Context, answer *models.ResultAnswer) error {
	return r.db.WithContext(ctx).Save(answer).Error
}

func (r *ResultPostgreSQL) UpdateTotals(ctx context.Context, result *models.SimulationResult) error {
	return r.db.WithContext(ctx).
		Model(&models.SimulationResult{}).
		Where("id = ?", result.ID).
		Updates(map[string]interface{}{
			"total_score":   result.TotalScore,
			"correct_count": result.CorrectCount,
			"wrong_count":   result.WrongCount,
			"blank_count":   result.BlankCount,
			"pending_count": result.PendingCount,
		}).Error
}

func (r *ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.SimulationID != nil {
		query = query.Where("simulation_id = ?", *filters.SimulationID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *ResultPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "total_score", "completed_at":
	default:
		sortBy = "completed_at"
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
