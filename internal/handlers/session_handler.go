package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// SessionHandler handles simulation session endpoints for students
type SessionHandler struct {
	BaseHandler
	service services.SessionService
}

func NewSessionHandler(service services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Start opens a new attempt, or resumes the caller's in-progress session.
func (h *SessionHandler) Start(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.Start(c.Request.Context(), simulationID, middleware.GetUserID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Session started", session)
}

// CheckAccess reports whether the caller may currently enter the simulation
// without creating a session.
func (h *SessionHandler) CheckAccess(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.CheckAccess(c.Request.Context(), simulationID, middleware.GetUserID(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Access granted", gin.H{"allowed": true})
}

func (h *SessionHandler) GetByID(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetByID(c.Request.Context(), id, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Session retrieved", session)
}

func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SaveAnswer(c.Request.Context(), id, middleware.GetUserID(c), &req); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answer saved", nil)
}

func (h *SessionHandler) Submit(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Session submitted", result)
}

func (h *SessionHandler) Abandon(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Abandon(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Session abandoned", nil)
}
