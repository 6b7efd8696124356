// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule is the cron spec used when none is configured.
const DefaultSweepSchedule = "@every 1m"

// Sweeper removes expired state and reports how much was removed. Both the
// record store and the durable work queue satisfy it.
type Sweeper interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Janitor periodically removes expired task state on a cron schedule.
type Janitor struct {
	cron     *cron.Cron
	schedule string
	sweepers []Sweeper
	logger   *slog.Logger
}

// NewJanitor creates a janitor sweeping the given targets. The schedule uses
// cron syntax, including the @every form.
func NewJanitor(schedule string, logger *slog.Logger, sweepers ...Sweeper) *Janitor {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		cron:     cron.New(),
		schedule: schedule,
		sweepers: sweepers,
		logger:   logger,
	}
}

// Start begins the periodic sweep.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.sweep); err != nil {
		return fmt.Errorf("scheduling expiry sweep: %w", err)
	}
	j.cron.Start()
	return nil
}

// Stop halts the sweep and waits for an in-flight run to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()
	for _, sweeper := range j.sweepers {
		removed, err := sweeper.DeleteExpired(ctx, now)
		if err != nil {
			j.logger.WarnContext(ctx, "expiry sweep failed", "error", err)
			continue
		}
		if removed > 0 {
			j.logger.InfoContext(ctx, "removed expired tasks", "count", removed)
		}
	}
}
