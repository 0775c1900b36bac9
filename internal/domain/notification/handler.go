package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetNotifications returns the caller's notifications, newest first.
// @Summary		List notifications
// @Tags		Notifications
// @Security	BearerAuth
// @Param		limit	query	int	false	"Page size (default 50, max 200)"
// @Param		offset	query	int	false	"Offset"
// @Success		200	{array}		Notification
// @Failure		401	{object}	map[string]interface{}
// @Router		/notifications [GET]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if items == nil {
		items = []Notification{}
	}

	response.Success(c, http.StatusOK, items)
}

// GetUnread returns the unread count and the latest unread notifications.
// @Summary		Unread notifications
// @Tags		Notifications
// @Security	BearerAuth
// @Success		200	{object}	UnreadResponse
// @Router		/notifications/unread [GET]
func (h *Handler) GetUnread(c *gin.Context) {
	out, err := h.service.Unread(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Notification marked as read")
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.service.MarkAllRead(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}

// Clear deletes every notification of the caller.
// @Summary		Clear notifications
// @Tags		Notifications
// @Security	BearerAuth
// @Success		200	{object}	ClearResponse
// @Router		/notifications/clear [DELETE]
func (h *Handler) Clear(c *gin.Context) {
	deleted, err := h.service.Clear(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ClearResponse{Message: "Notifications cleared", Deleted: deleted})
}
