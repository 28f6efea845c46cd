// internal/app/system/notify/notify.go

// Package notify publishes operator-facing events (assignment completed,
// deal expired, and so on). Handlers fire these best-effort; a failed
// publish never fails the request that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event is one notification.
type Event struct {
	Kind           string    `json:"kind"`            // e.g. "staff.assigned", "deal.expired"
	Level          string    `json:"level"`           // "success" or "error"
	OrganizationID string    `json:"organization_id"` // scope for fan-out, may be empty
	Subject        string    `json:"subject"`         // record id the event is about
	Message        string    `json:"message"`
	At             time.Time `json:"at"`
}

// Notifier delivers events. Implementations must be safe for concurrent
// use and must not block on slow consumers.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}

// Success publishes a success-level event.
func Success(ctx context.Context, n Notifier, kind, orgID, subject, message string) {
	n.Publish(ctx, Event{Kind: kind, Level: "success", OrganizationID: orgID, Subject: subject, Message: message})
}

// Error publishes an error-level event.
func Error(ctx context.Context, n Notifier, kind, orgID, subject, message string) {
	n.Publish(ctx, Event{Kind: kind, Level: "error", OrganizationID: orgID, Subject: subject, Message: message})
}

// LogNotifier writes events to the structured log. It is the fallback
// when no broker is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Publish(ctx context.Context, ev Event) {
	n.Logger.Info("event",
		zap.String("kind", ev.Kind),
		zap.String("level", ev.Level),
		zap.String("organization_id", ev.OrganizationID),
		zap.String("subject", ev.Subject),
		zap.String("message", ev.Message))
}

// RedisNotifier publishes events on a Redis channel so dashboard clients
// can stream them.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedis connects a notifier to the given Redis address. The channel
// name is shared with the dashboard's event stream subscriber.
func NewRedis(addr, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		n.logger.Warn("notify: marshal event", zap.Error(err))
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.Warn("notify: publish",
			zap.String("kind", ev.Kind),
			zap.Error(err))
	}
}

// Close releases the Redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
