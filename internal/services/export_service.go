package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders simulation results as an xlsx workbook for staff.
type ExportService interface {
	ExportResults(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]byte, string, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var resultExportHeaders = []string{
	"Student", "Email", "Total Score", "Max Score", "Correct", "Wrong", "Blank", "Pending", "Completed At",
}

// ExportResults returns the workbook bytes and a suggested file name.
func (s *exportService) ExportResults(ctx context.Context, simulationID uint, userID string, role models.UserRole) ([]byte, string, error) {
	if !role.IsStaff() {
		return nil, "", NewPermissionError(userID, simulationID, "result", "export", "staff only")
	}

	sim, err := s.repo.Simulation().GetByID(ctx, simulationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrSimulationNotFound
		}
		return nil, "", fmt.Errorf("failed to get simulation: %w", err)
	}

	results, _, err := s.repo.Result().GetBySimulation(ctx, simulationID, repositories.ResultFilters{
		SortBy:    "completed_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range resultExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(resultExportHeaders), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, result := range results {
		row := i + 2
		values := []interface{}{
			result.Student.FullName,
			result.Student.Email,
			result.TotalScore,
			result.MaxScore,
			result.CorrectCount,
			result.WrongCount,
			result.BlankCount,
			result.PendingCount,
			result.CompletedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("simulation_%d_results.xlsx", simulationID)
	s.logger.Info("Results exported",
		"simulation_id", simulationID, "rows", len(results), "user_id", userID, "title", sim.Title)
	return buf.Bytes(), filename, nil
}
