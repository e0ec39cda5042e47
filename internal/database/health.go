package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WaitForHealthy blocks until the database answers a ping, retrying with
// exponential backoff, or until the context expires. Startup fails when this
// returns an error.
func WaitForHealthy(ctx context.Context, m *Manager, logger *zap.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0 // bounded by ctx

	operation := func() error {
		return m.Health(ctx)
	}

	notify := func(err error, d time.Duration) {
		logger.Debug("Database not healthy yet, retrying",
			zap.Error(err),
			zap.Duration("backoff", d),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("database failed to become healthy: %w", err)
	}

	logger.Info("Database is healthy")
	return nil
}
