package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehub/internal/pkg/logger"
)

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	logger.Silence()
	c := newScheduler()

	var runs int32
	started := make(chan struct{})
	release := make(chan struct{})
	id, err := c.AddFunc("@every 1h", func() {
		if atomic.AddInt32(&runs, 1) == 1 {
			close(started)
		}
		<-release
	})
	require.NoError(t, err)

	job := c.Entry(id).WrappedJob
	done := make(chan struct{})
	go func() {
		job.Run()
		close(done)
	}()
	<-started

	// the second run returns at once while the first still holds the job
	job.Run()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not finish")
	}

	job.Run()
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}
