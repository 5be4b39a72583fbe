// Package sweeper runs the engine's orphan sweep on a cron schedule, a
// complement to the sweep that already runs on every delete. It catches
// chunks orphaned by crashes or cancelled stores on deployments where
// deletes are rare.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"chunkvault/internal/logging"
)

// orphanSweeper is the subset of *engine.Engine this package depends on.
type orphanSweeper interface {
	SweepOrphans(ctx context.Context) error
}

// Sweeper periodically runs an engine's orphan sweep.
type Sweeper struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// New creates a Sweeper that calls eng.SweepOrphans on the given six-field
// (seconds-enabled) cron schedule, e.g. "0 */10 * * * *" for every 10
// minutes, until Stop is called. The job starts running as soon as New
// returns.
func New(eng orphanSweeper, cronExpr string, logger *slog.Logger) (*Sweeper, error) {
	logger = logging.Default(logger).With("component", "sweeper")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("sweeper: create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.CronJob(cronExpr, true),
		gocron.NewTask(func() {
			if err := eng.SweepOrphans(context.Background()); err != nil {
				logger.Warn("periodic orphan sweep failed", "error", err)
				return
			}
			logger.Info("periodic orphan sweep completed")
		}),
		gocron.WithName("orphan-sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("sweeper: register job: %w", err)
	}

	s.Start()
	return &Sweeper{scheduler: s, logger: logger}, nil
}

// Stop shuts the scheduler down, waiting for any in-flight sweep to finish.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
