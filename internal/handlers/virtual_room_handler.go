package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// VirtualRoomHandler handles supervised room endpoints
type VirtualRoomHandler struct {
	BaseHandler
	service services.VirtualRoomService
}

func NewVirtualRoomHandler(service services.VirtualRoomService, logger utils.Logger) *VirtualRoomHandler {
	return &VirtualRoomHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Open opens a supervised room for a simulation, letting assigned students in
// ahead of their scheduled start.
func (h *VirtualRoomHandler) Open(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.service.Open(c.Request.Context(), simulationID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Virtual room opened", room)
}

func (h *VirtualRoomHandler) Close(c *gin.Context) {
	roomID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.CloseRoom(c.Request.Context(), roomID, middleware.GetUserID(c), middleware.GetUserRole(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Virtual room closed", nil)
}

func (h *VirtualRoomHandler) GetOpen(c *gin.Context) {
	simulationID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.service.GetOpen(c.Request.Context(), simulationID)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Virtual room retrieved", room)
}
