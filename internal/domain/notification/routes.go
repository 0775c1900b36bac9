package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the notification endpoints on a protected group. The
// same handlers are exposed under /users/notifications for older clients.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	for _, prefix := range []string{"/notifications", "/users/notifications"} {
		g := protected.Group(prefix)
		{
			g.GET("", h.GetNotifications)
			g.GET("/unread", h.GetUnread)
			g.PATCH("/read-all", h.MarkAllAsRead)
			g.PATCH("/:id/read", h.MarkAsRead)
			g.DELETE("/clear", h.Clear)
		}
	}
}

// RegisterStreamRoute mounts the websocket stream on a public group; the
// stream authenticates with the token query parameter.
func (s *StreamHandler) RegisterStreamRoute(public *gin.RouterGroup) {
	public.GET("/notifications/stream", s.Stream)
}
