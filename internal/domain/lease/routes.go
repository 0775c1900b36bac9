package lease

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	leases := protected.Group("/leases")
	{
		leases.POST("", h.Apply)
		leases.GET("", h.GetLeases)
		leases.GET("/my-leases", h.GetLeases)
		leases.GET("/:id", h.GetLease)
		leases.POST("/:id/status", h.UpdateStatus)
		leases.PATCH("/:id/status", h.UpdateStatus)
		leases.POST("/:id/terminate", h.Terminate)
	}
}
