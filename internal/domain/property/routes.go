package property

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts the read endpoints. The group is expected to run
// optional auth so owners and admins see their non-public listings.
func (h *Handler) RegisterPublicRoutes(optional *gin.RouterGroup) {
	properties := optional.Group("/properties")
	{
		properties.GET("", h.GetProperties)
		properties.GET("/landlord/:id", h.GetLandlordProperties)
		properties.GET("/:id", h.GetProperty)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	properties := protected.Group("/properties")
	{
		properties.GET("/mine", h.GetMyProperties)
		properties.POST("", h.CreateProperty)
		properties.PUT("/:id", h.UpdateProperty)
		properties.POST("/:id/resubmit", h.ResubmitProperty)
		properties.DELETE("/:id", h.DeleteProperty)
		properties.POST("/:id/approve", h.ApproveProperty)
		properties.POST("/:id/reject", h.RejectProperty)
	}
}

// RegisterAdminRoutes mounts the admin console endpoints on an admin-only group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/properties/pending", h.GetPendingProperties)
	admin.PATCH("/properties/:id/verify", h.VerifyProperty)
}
