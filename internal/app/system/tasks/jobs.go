// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	"github.com/campushq/campushub/internal/app/system/notify"
)

// Job is one periodic maintenance task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// DealExpiryJob flips active deals whose validity window has passed to
// expired, so clients never see a stale offer. One event is published
// per sweep that expired anything.
func DealExpiryJob(dealStore *dealstore.Store, notifier notify.Notifier, logger *zap.Logger) Job {
	return Job{
		Name:     "deal-expiry",
		Interval: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			now := time.Now().UTC()
			count, err := dealStore.ExpireOverdue(ctx, now)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("expired overdue deals", zap.Int64("count", count))
				notifier.Publish(ctx, notify.Event{
					Kind:    "deal.expired",
					Message: "deals past their validity window were expired",
					At:      now,
				})
			}
			return nil
		},
	}
}
