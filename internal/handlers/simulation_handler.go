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

// SimulationHandler handles simulation lifecycle and question management endpoints
type SimulationHandler struct {
	BaseHandler
	service services.SimulationService
}

func NewSimulationHandler(service services.SimulationService, logger utils.Logger) *SimulationHandler {
	return &SimulationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *SimulationHandler) Create(c *gin.Context) {
	var req services.CreateSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sim, err := h.service.Create(c.Request.Context(), &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Simulation created", sim)
}

func (h *SimulationHandler) GetByID(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	sim, err := h.service.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulation retrieved", sim)
}

func (h *SimulationHandler) List(c *gin.Context) {
	filters := repositories.SimulationFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = ParsePagination(c)

	if t := c.Query("type"); t != "" {
		simType := models.SimulationType(t)
		filters.Type = &simType
	}
	if s := c.Query("status"); s != "" {
		status := models.SimulationStatus(s)
		filters.Status = &status
	}
	if creator := c.Query("created_by"); creator != "" {
		filters.CreatedBy = &creator
	}

	sims, total, err := h.service.List(c.Request.Context(), filters, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulations retrieved", ListResponse{Items: sims, Total: total})
}

func (h *SimulationHandler) Update(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sim, err := h.service.Update(c.Request.Context(), id, &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulation updated", sim)
}

func (h *SimulationHandler) Delete(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	force := c.Query("force") == "true"
	if err := h.service.Delete(c.Request.Context(), id, force, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulation deleted", nil)
}

func (h *SimulationHandler) Publish(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Publish(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulation published", nil)
}

func (h *SimulationHandler) Archive(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Archive(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Simulation archived", nil)
}

func (h *SimulationHandler) AddQuestion(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddSimulationQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.AddQuestion(c.Request.Context(), id, &req, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Question added", nil)
}

func (h *SimulationHandler) RemoveQuestion(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := ParseUintIDParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.service.RemoveQuestion(c.Request.Context(), id, questionID, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question removed", nil)
}

func (h *SimulationHandler) UpdateQuestionOverride(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := ParseUintIDParam(c, "questionId")
	if !ok {
		return
	}

	var req services.QuestionOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateQuestionOverride(c.Request.Context(), id, questionID, &req, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question override updated", nil)
}

func (h *SimulationHandler) GetQuestions(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.service.GetQuestions(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions retrieved", questions)
}

func (h *SimulationHandler) GetStats(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Statistics retrieved", stats)
}
