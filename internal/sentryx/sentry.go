package sentryx

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures Init. An empty DSN falls back to SENTRY_DSN; when both
// are empty reporting stays disabled.
type Options struct {
	DSN         string
	Environment string
	Service     string
}

var (
	initOnce sync.Once
	enabled  bool
)

func Init(opts Options) error {
	var initErr error
	initOnce.Do(func() {
		dsn := opts.DSN
		if dsn == "" {
			dsn = os.Getenv("SENTRY_DSN")
		}

		if dsn == "" {
			return
		}

		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			Environment:      envOr(opts.Environment, "unknown"),
			ServerName:       opts.Service,
			AttachStacktrace: true,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
		}); err != nil {
			initErr = fmt.Errorf("init sentry: %w", err)
			return
		}
		enabled = true
	})
	return initErr
}

// Enabled reports whether events are being sent.
func Enabled() bool {
	return enabled
}

func CaptureError(err error, message string, args ...any) {
	if !enabled {
		return
	}
	if err == nil {
		return
	}

	msg := message
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		if msg != "" {
			scope.SetTag("log_message", msg)
		}
		sentry.CaptureException(err)
	})
}

func CaptureMessage(level sentry.Level, message string, args ...any) {
	if !enabled {
		return
	}
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		sentry.CaptureMessage(message)
	})
}

func RecoverPanicAndCapture() {
	if !enabled {
		return
	}
	if rec := recover(); rec != nil {
		sentry.CurrentHub().Recover(rec)
		sentry.Flush(2 * time.Second)
		panic(rec)
	}
}

func Flush(timeout time.Duration) {
	if !enabled {
		return
	}
	sentry.Flush(timeout)
}

func envOr(value, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv("FILESERVICE_ENVIRONMENT"); v != "" {
		return v
	}
	return fallback
}
