package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homehub/internal/domain/admin"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/maintenance"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/payment"
	"homehub/internal/domain/property"
	"homehub/internal/middleware"
	"homehub/internal/pkg/response"
)

// Router mounts every endpoint under /api.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.CORS(a.Config.CORSAllowedOrigins),
	)

	authHandler := auth.NewHandler(a.Auth)
	propertyHandler := property.NewHandler(a.Properties)
	leaseHandler := lease.NewHandler(a.Leases)
	maintenanceHandler := maintenance.NewHandler(a.Maintenance)
	paymentHandler := payment.NewHandler(a.Payments)
	notificationHandler := notification.NewHandler(a.Notifications)
	streamHandler := notification.NewStreamHandler(a.notificationRepo, a.JWT, a.Auth, middleware.OriginChecker(a.Config.CORSAllowedOrigins))
	adminHandler := admin.NewHandler(a.Admin)

	api := r.Group("/api")
	api.GET("/health", a.health)

	// public
	authHandler.RegisterPublicRoutes(api)
	streamHandler.RegisterStreamRoute(api)

	// collaborator callbacks
	internal := api.Group("")
	internal.Use(middleware.InternalTokenAuth(a.Config.InternalAPIToken))
	paymentHandler.RegisterWebhookRoutes(internal)

	// anonymous or signed in
	optional := api.Group("")
	optional.Use(middleware.OptionalAuth(a.JWT, a.Auth))
	propertyHandler.RegisterPublicRoutes(optional)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(a.JWT, a.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)
		propertyHandler.RegisterProtectedRoutes(protected)
		leaseHandler.RegisterRoutes(protected)
		maintenanceHandler.RegisterRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)
		notificationHandler.RegisterRoutes(protected)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			propertyHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	return r
}

func (a *App) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		response.CustomError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is unreachable")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
