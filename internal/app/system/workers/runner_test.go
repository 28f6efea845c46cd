// internal/app/system/workers/runner_test.go

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/campushub/internal/app/system/tasks"
)

func TestRunnerRunsImmediatelyAndStops(t *testing.T) {
	var ran atomic.Int32
	job := tasks.Job{
		Name:     "counter",
		Interval: time.Hour, // the immediate run is all we expect
		Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		},
	}

	r := NewRunner(zap.NewNop(), job)
	r.Start()

	deadline := time.After(2 * time.Second)
	for ran.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRunnerSurvivesFailingJob(t *testing.T) {
	var ran atomic.Int32
	bad := tasks.Job{
		Name:     "flaky",
		Interval: 20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			ran.Add(1)
			return context.DeadlineExceeded
		},
	}

	r := NewRunner(zap.NewNop(), bad)
	r.Start()

	deadline := time.After(2 * time.Second)
	for ran.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("failing job should keep being scheduled")
		case <-time.After(10 * time.Millisecond):
		}
	}
	r.Stop()
}
