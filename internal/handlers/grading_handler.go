package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// GradingHandler handles manual grading of open text answers
type GradingHandler struct {
	BaseHandler
	service services.GradingService
}

func NewGradingHandler(service services.GradingService, logger utils.Logger) *GradingHandler {
	return &GradingHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *GradingHandler) GradeAnswer(c *gin.Context) {
	resultID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := ParseUintIDParam(c, "questionId")
	if !ok {
		return
	}

	var req services.GradeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	answer, err := h.service.GradeAnswer(c.Request.Context(), resultID, questionID, &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answer graded", answer)
}

func (h *GradingHandler) ListPending(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	results, err := h.service.ListPending(c.Request.Context(), simulationID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Pending results retrieved", results)
}
