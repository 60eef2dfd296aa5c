package jobs

import (
	"company-data-manager/internal/logger"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker is a unit of scheduled background work.
type Worker interface {
	Name() string
	Schedule() string
	Execute(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	workers []Worker
}

func NewScheduler(workers ...Worker) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		workers: workers,
	}
}

// Start registers every worker and starts the cron loop. Runs are bounded by
// ctx; a cancelled ctx makes pending runs return early.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, worker := range s.workers {
		w := worker
		_, err := s.cron.AddFunc(w.Schedule(), func() {
			run(ctx, w)
		})
		if err != nil {
			return err
		}
		logger.Info("Scheduled background job",
			zap.String("job", w.Name()),
			zap.String("schedule", w.Schedule()),
		)
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Background jobs did not finish before shutdown")
	}
}

func run(ctx context.Context, w Worker) {
	start := time.Now()
	if err := w.Execute(ctx); err != nil {
		logger.Error("Background job failed",
			zap.String("job", w.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	logger.Debug("Background job finished",
		zap.String("job", w.Name()),
		zap.Duration("duration", time.Since(start)),
	)
}
