// internal/app/system/workers/runner.go

// Package workers runs the periodic jobs defined in tasks. One goroutine
// per job; Stop waits for all of them to drain.
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/system/tasks"
)

// Runner owns the background job goroutines.
type Runner struct {
	jobs   []tasks.Job
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner builds a runner over the given jobs.
func NewRunner(logger *zap.Logger, jobs ...tasks.Job) *Runner {
	return &Runner{
		jobs:   jobs,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start launches every job loop. Each job also runs once immediately so
// a restart never leaves overdue work sitting until the first tick.
func (r *Runner) Start() {
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(job)
		r.log.Info("worker started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop signals every loop and waits for them to finish.
func (r *Runner) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.log.Info("workers stopped")
}

func (r *Runner) loop(job tasks.Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.runOnce(job)
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.runOnce(job)
		}
	}
}

func (r *Runner) runOnce(job tasks.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := job.Run(ctx); err != nil {
		r.log.Error("job failed",
			zap.String("job", job.Name),
			zap.Error(err))
	}
}
