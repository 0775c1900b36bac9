package maintenance

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	m := protected.Group("/maintenance")
	{
		m.GET("", h.GetRequests)
		m.POST("", h.CreateRequest)
		m.GET("/:id", h.GetRequest)
		m.PATCH("/:id", h.UpdateStatus)
		m.PATCH("/:id/status", h.UpdateStatus)
	}
}
