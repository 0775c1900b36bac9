package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homehub/internal/app"
	"homehub/internal/config"
	"homehub/internal/database"
	"homehub/internal/pkg/logger"
)

const (
	sweepJobTimeout   = 5 * time.Minute
	cleanupJobTimeout = 5 * time.Minute
	shutdownTimeout   = 15 * time.Second
)

func main() {
	_ = godotenv.Load()
	logger.Init("homehub-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	if err := app.Migrate(db); err != nil {
		logger.Log.WithError(err).Fatal("migration failed")
	}

	a := app.New(cfg, db, nil)

	c := newScheduler()
	_, err = c.AddFunc(cfg.LeaseSweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()
		res, err := a.Leases.SweepExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Log.WithError(err).Error("lease sweep failed")
			return
		}
		logger.Log.WithField("ended", res.Ended).WithField("failed", res.Failed).Info("lease sweep finished")
	})
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to schedule lease sweep")
	}
	_, err = c.AddFunc(cfg.NotificationCleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupJobTimeout)
		defer cancel()
		_, _ = a.Cleanup.Run(ctx)
	})
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to schedule notification cleanup")
	}
	c.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).WithField("env", cfg.AppEnv).Info("homehub api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	<-c.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
	}
}
