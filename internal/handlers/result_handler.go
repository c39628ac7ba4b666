package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// ResultHandler handles result retrieval and export endpoints
type ResultHandler struct {
	BaseHandler
	service       services.ResultService
	exportService services.ExportService
}

func NewResultHandler(service services.ResultService, exportService services.ExportService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		exportService: exportService,
	}
}

func (h *ResultHandler) GetByID(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Result retrieved", result)
}

// ListMine returns the caller's own results.
func (h *ResultHandler) ListMine(c *gin.Context) {
	filters := resultFiltersFromQuery(c)
	results, total, err := h.service.ListForStudent(c.Request.Context(), middleware.GetUserID(c), filters)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Results retrieved", ListResponse{Items: results, Total: total})
}

func (h *ResultHandler) ListBySimulation(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	filters := resultFiltersFromQuery(c)
	results, total, err := h.service.ListBySimulation(c.Request.Context(), simulationID, filters, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Results retrieved", ListResponse{Items: results, Total: total})
}

// Export streams the simulation's results as an xlsx workbook.
func (h *ResultHandler) Export(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportResults(c.Request.Context(), simulationID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func resultFiltersFromQuery(c *gin.Context) repositories.ResultFilters {
	filters := repositories.ResultFilters{
		SortBy:    c.DefaultQuery("sort_by", "completed_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = ParsePagination(c)

	if simID, ok := parseUintQuery(c, "simulation_id"); ok {
		filters.SimulationID = &simID
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}
	return filters
}
