// Package app wires repositories, services and handlers into the HTTP service.
package app

import (
	"gorm.io/gorm"

	"homehub/internal/config"
	"homehub/internal/database"
	"homehub/internal/domain/admin"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/maintenance"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/payment"
	"homehub/internal/domain/property"
	"homehub/internal/pkg/jwt"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	JWT    *jwt.Service

	Auth          *auth.Service
	Properties    *property.Service
	Leases        *lease.Service
	Maintenance   *maintenance.Service
	Payments      *payment.Service
	Notifications *notification.Service
	Cleanup       *notification.CleanupService
	Admin         *admin.Service

	notificationRepo *notification.Repository
}

// New builds the service graph. gateway may be nil, in which case the
// sandbox gateway is used.
func New(cfg *config.Config, db *gorm.DB, gateway payment.Gateway) *App {
	if gateway == nil {
		gateway = payment.NewSandboxGateway()
	}

	tx := database.NewTransactor(db)
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	userRepo := auth.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	propertyRepo := property.NewRepository(db)
	leaseRepo := lease.NewRepository(db)
	maintenanceRepo := maintenance.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	notifications := notification.NewService(notificationRepo)

	authService := auth.NewService(userRepo, tx, jwtService, notifications, auth.Options{
		TokenTTL:    cfg.JWTAccessTTL,
		AdminSecret: cfg.AdminSecret,
		Leases:      leaseRepo,
	})
	propertyService := property.NewService(propertyRepo, userRepo, leaseRepo, tx, notifications)
	leaseService := lease.NewService(leaseRepo, propertyRepo, userRepo, tx, notifications, cfg.DefaultLeaseTermMonths)
	maintenanceService := maintenance.NewService(maintenanceRepo, leaseRepo, propertyRepo, userRepo, tx, notifications)
	paymentService := payment.NewService(paymentRepo, leaseRepo, propertyRepo, userRepo, gateway, tx, notifications)

	return &App{
		Config:           cfg,
		DB:               db,
		JWT:              jwtService,
		Auth:             authService,
		Properties:       propertyService,
		Leases:           leaseService,
		Maintenance:      maintenanceService,
		Payments:         paymentService,
		Notifications:    notifications,
		Cleanup:          notification.NewCleanupService(notificationRepo, cfg.NotificationRetention),
		Admin:            admin.NewService(authService, propertyService, leaseService),
		notificationRepo: notificationRepo,
	}
}
