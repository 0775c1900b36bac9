package notification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"homehub/internal/pkg/logger"
)

// CleanupService prunes old read notifications.
type CleanupService struct {
	repo      *Repository
	retention time.Duration
}

// NewCleanupService creates cleanup service
func NewCleanupService(repo *Repository, retention time.Duration) *CleanupService {
	return &CleanupService{repo: repo, retention: retention}
}

// Run deletes read notifications older than the retention window.
func (c *CleanupService) Run(ctx context.Context) (int64, error) {
	startTime := time.Now()
	cutoff := startTime.UTC().Add(-c.retention)

	deleted, err := c.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("notification cleanup failed")
		return 0, err
	}

	logger.Log.WithFields(logrus.Fields{
		"deleted":  deleted,
		"cutoff":   cutoff.Format(time.RFC3339),
		"duration": time.Since(startTime).String(),
	}).Info("notification cleanup completed")

	return deleted, nil
}
