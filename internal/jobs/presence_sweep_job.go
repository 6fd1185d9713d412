package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts sessions whose transport is gone, republishes presence and
// reports how many sessions were evicted.
type Sweeper interface {
	Sweep() int
}

// PresenceSweepJob periodically drops dead sessions from the registry and
// refreshes every group's connected-users list.
type PresenceSweepJob struct {
	sweeper  Sweeper
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPresenceSweepJob creates a sweep job running every interval.
func NewPresenceSweepJob(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *PresenceSweepJob {
	return &PresenceSweepJob{
		sweeper:  sweeper,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "presence_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *PresenceSweepJob) Start() error {
	if j.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", j.interval)
	}

	if _, err := j.cron.AddFunc("@every "+j.interval.String(), j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Presence sweep job started", "interval", j.interval.String())
	return nil
}

// Run performs one sweep.
func (j *PresenceSweepJob) Run() {
	if evicted := j.sweeper.Sweep(); evicted > 0 {
		j.logger.Info("stale sessions evicted", "count", evicted)
	}
}

// Stop stops the schedule and waits for a running sweep to finish.
func (j *PresenceSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Presence sweep job stopped")
}
