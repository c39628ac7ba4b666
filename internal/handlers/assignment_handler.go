package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/models"
	"github.com/leonardo-school/simulation-service/internal/repositories"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// AssignmentHandler handles simulation assignment endpoints
type AssignmentHandler struct {
	BaseHandler
	service services.AssignmentService
}

func NewAssignmentHandler(service services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	assignments, err := h.service.Create(c.Request.Context(), &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Assignment created", assignments)
}

func (h *AssignmentHandler) GetByID(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.service.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment retrieved", assignment)
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	assignment, err := h.service.Update(c.Request.Context(), id, &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment updated", assignment)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment deleted", nil)
}

func (h *AssignmentHandler) Close(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Close(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignment closed", nil)
}

func (h *AssignmentHandler) ListBySimulation(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	filters := assignmentFiltersFromQuery(c)
	assignments, total, err := h.service.ListBySimulation(c.Request.Context(), simulationID, filters, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignments retrieved", ListResponse{Items: assignments, Total: total})
}

// ListMine returns the caller's own assignments, running the lazy auto-close
// pass so expired windows are reported as closed.
func (h *AssignmentHandler) ListMine(c *gin.Context) {
	filters := assignmentFiltersFromQuery(c)
	assignments, total, err := h.service.ListForStudent(c.Request.Context(), middleware.GetUserID(c), filters)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	for _, a := range assignments {
		h.service.MaybeAutoClose(c.Request.Context(), a)
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignments retrieved", ListResponse{Items: assignments, Total: total})
}

func assignmentFiltersFromQuery(c *gin.Context) repositories.AssignmentFilters {
	var filters repositories.AssignmentFilters
	filters.Limit, filters.Offset = ParsePagination(c)

	if s := c.Query("status"); s != "" {
		status := models.AssignmentStatus(s)
		filters.Status = &status
	}
	if studentID := c.Query("student_id"); studentID != "" {
		filters.StudentID = &studentID
	}
	if groupID, ok := parseUintQuery(c, "group_id"); ok {
		filters.GroupID = &groupID
	}
	return filters
}
