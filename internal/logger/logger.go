package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"

	"github.com/templui/balancewheel/internal/config"
)

// Log is the global logger instance
var Log *slog.Logger

// Init installs the default logger.
// Development: colored tint output at Debug level.
// Production: JSON on stdout at Info level.
// With SENTRY_DSN set, Error records (hierarchy violations among them) are
// also sent to Sentry.
func Init(cfg *config.Config) {
	var base slog.Handler
	if cfg.IsDevelopment() {
		base = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	handler := base
	var sentryErr error
	if cfg.SentryDSN != "" {
		sentryErr = sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			TracesSampleRate: 1.0,
		})
		if sentryErr == nil {
			handler = slogmulti.Fanout(base, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	Log = slog.New(handler).With("app", cfg.AppName)
	slog.SetDefault(Log)

	if sentryErr != nil {
		Log.Warn("sentry disabled", "error", sentryErr)
	}
}

// Flush waits for buffered Sentry events before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
