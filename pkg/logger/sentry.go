package logger

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/cortex-client/pkg/config"
)

// InitSentry configures the global Sentry hub when reporting is enabled. It returns a flush
// function that is safe to call either way.
func InitSentry(cfg config.Config) (func(time.Duration), error) {
	noop := func(time.Duration) {}
	if !cfg.Sentry.Enabled {
		return noop, nil
	}

	env := cfg.Sentry.Environment
	if env == "" {
		env = cfg.AppEnv
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      env,
		AttachStacktrace: true,
	})
	if err != nil {
		return noop, fmt.Errorf("init sentry: %w", err)
	}

	return func(timeout time.Duration) { sentry.Flush(timeout) }, nil
}
