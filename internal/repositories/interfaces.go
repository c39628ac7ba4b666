package repositories

import (
	"time"

	"github.com/leonardo-school/simulation-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SimulationFilters struct {
	Type      *models.SimulationType   `json:"type"`
	Status    *models.SimulationStatus `json:"status"`
	CreatedBy *string                  `json:"created_by"`
	Search    string                   `json:"search"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

type AssignmentFilters struct {
	Status    *models.AssignmentStatus `json:"status"`
	StudentID *string                  `json:"student_id"`
	GroupID   *uint                    `json:"group_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
}

type ResultFilters struct {
	SimulationID *uint      `json:"simulation_id"`
	StudentID    *string    `json:"student_id"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	Limit        int        `json:"limit"`
	Offset       int        `json:"offset"`
	SortBy       string     `json:"sort_by"`
	SortOrder    string     `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SimulationStats struct {
	TotalResults  int     `json:"total_results"`
	AverageScore  float64 `json:"average_score"`
	BestScore     float64 `json:"best_score"`
	WorstScore    float64 `json:"worst_score"`
	PendingCount  int     `json:"pending_count"`
	StudentsCount int     `json:"students_count"`
}

type StudentResultStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	BestScore     float64 `json:"best_score"`
	Simulations   int     `json:"simulations"`
}
