package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	BaseHandler
	service      services.NotificationService
	eventService services.NotificationEventService
}

func NewNotificationHandler(service services.NotificationService, eventService services.NotificationEventService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		eventService: eventService,
	}
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	limit, offset := ParsePagination(c)
	notifications, total, err := h.service.ListForUser(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Notifications retrieved", ListResponse{Items: notifications, Total: total})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Notification marked as read", nil)
}

// SendBulkRequest is the payload for staff initiated broadcast notifications.
type SendBulkRequest struct {
	RecipientIDs []string                     `json:"recipient_ids" binding:"required,min=1"`
	Notification services.NotificationRequest `json:"notification" binding:"required"`
}

func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req SendBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.eventService.SendBulkNotification(c.Request.Context(), req.RecipientIDs, &req.Notification, middleware.GetUserID(c)); err != nil {
		h.RespondWithServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusAccepted, "Notifications queued", gin.H{"recipient_count": len(req.RecipientIDs)})
}
