package admin

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/landlords/pending", h.GetPendingLandlords)
	admin.PATCH("/landlords/:id/verify", h.VerifyLandlord)
	admin.POST("/landlords/:id/verify", h.VerifyLandlord)

	admin.GET("/users", h.GetUsers)
	admin.GET("/stats", h.GetStats)
	admin.GET("/statistics", h.GetStats)
}
