package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"oscontrol/internal/cloud"
	"oscontrol/internal/config"
	"oscontrol/internal/lifecycle"
)

// newEnv builds the configuration, authenticates against the cloud and
// returns the lifecycle operations bound to that session. It is a
// variable to allow substituting fake backends in tests.
var newEnv = func(ctx context.Context) (*config.Config, *lifecycle.Ops, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	sess, err := cloud.NewSession(ctx, cfg.Credentials)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lifecycle.New(sess, sess), nil
}

// opCtx returns the context for one operation: cancelled on SIGINT or
// SIGTERM, and bounded by --timeout when one was given.
func opCtx() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// fallback returns the flag value, or the settings-file default when
// the flag was not given.
func fallback(flagValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return defaultValue
}
