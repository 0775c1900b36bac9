package main

import (
	"time"

	"github.com/robfig/cron/v3"

	"homehub/internal/pkg/logger"
)

// newScheduler runs jobs in UTC. A job still running when its next tick
// arrives is skipped, so a slow lease sweep never overlaps itself.
func newScheduler() *cron.Cron {
	l := cron.PrintfLogger(logger.Log)
	return cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}
