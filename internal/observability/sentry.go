package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
)

// InitSentry configures the global Sentry client. It returns a flush function
// that is a no-op when Sentry is disabled.
func InitSentry(cfg config.SentryConfig, app config.AppConfig, logger *zap.Logger) (enabled bool, flush func()) {
	flush = func() {}
	if cfg.DSN == "" {
		return false, flush
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		Environment:      app.Env,
		Release:          app.Name + "@" + app.Version,
	}); err != nil {
		logger.Error("sentry init failed", zap.Error(err))
		return false, flush
	}
	logger.Info("sentry enabled")
	return true, func() { sentry.Flush(2 * time.Second) }
}
