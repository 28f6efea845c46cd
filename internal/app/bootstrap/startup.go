// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	dealstore "github.com/campushq/campushub/internal/app/store/deals"
	"github.com/campushq/campushub/internal/app/system/notify"
	"github.com/campushq/campushub/internal/app/system/tasks"
	"github.com/campushq/campushub/internal/app/system/timeouts"
	"github.com/campushq/campushub/internal/app/system/workers"
)

// Shared resources built during Startup; BuildHandler reuses the
// notifier and Shutdown stops the worker runner.
var (
	notifier notify.Notifier
	runner   *workers.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{})

	if appCfg.RedisAddr != "" {
		notifier = notify.NewRedis(appCfg.RedisAddr, appCfg.RedisChannel, logger)
		logger.Info("publishing events to redis",
			zap.String("addr", appCfg.RedisAddr),
			zap.String("channel", appCfg.RedisChannel))
	} else {
		notifier = &notify.LogNotifier{Logger: logger}
	}

	runner = workers.NewRunner(logger,
		tasks.DealExpiryJob(dealstore.New(deps.MongoDatabase), notifier, logger),
	)
	runner.Start()

	return nil
}
