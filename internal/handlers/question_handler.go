package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// QuestionHandler handles question authoring endpoints
type QuestionHandler struct {
	BaseHandler
	service services.QuestionService
}

func NewQuestionHandler(service services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	question, err := h.service.Create(c.Request.Context(), &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Question created", question)
}

func (h *QuestionHandler) GetByID(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.service.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question retrieved", question)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	question, err := h.service.Update(c.Request.Context(), id, &req, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question updated", question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question deleted", nil)
}
