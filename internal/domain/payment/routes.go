package payment

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	payments := protected.Group("/payments")
	{
		payments.GET("/my-invoices", h.GetInvoices)
		payments.GET("/invoices", h.GetInvoices)
		payments.POST("/invoices", h.CreateInvoice)
		payments.POST("/pay", h.Pay)
	}
}

// RegisterWebhookRoutes mounts the gateway callback. The group must carry the
// internal token middleware.
func (h *Handler) RegisterWebhookRoutes(internal *gin.RouterGroup) {
	internal.POST("/payments/callback", h.Callback)
}
