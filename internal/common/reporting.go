package common

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitReporting initializes the external error-reporting service from config.
// Reporting is entirely disabled when no DSN is configured; the returned
// flush function is then a no-op.
func InitReporting(config *Config, logger *Logger) (flush func(), err error) {
	if config.Reporting.DSN == "" {
		logger.Debug().Msg("Error reporting disabled (no DSN configured)")
		return func() {}, nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         config.Reporting.DSN,
		Environment: config.Environment,
		Release:     GetVersion(),
	})
	if err != nil {
		return func() {}, err
	}

	logger.Debug().Str("environment", config.Environment).Msg("Error reporting initialized")
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// ReportError forwards an error to the reporting service when enabled.
// Safe to call when reporting was never initialized.
func ReportError(err error) {
	if err == nil {
		return
	}
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}
}
