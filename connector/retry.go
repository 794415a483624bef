package connector

import (
	"context"
	"log/slog"
	"time"
)

// retryConnect calls connectFn up to MaxRetries+1 times, sleeping between
// attempts with exponential backoff capped at MaxDelay.
func retryConnect(ctx context.Context, opts RetryConfig, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := opts.Backoff
	if factor < 1 {
		factor = 2
	}

	var err error
	for attempt := 0; ; attempt++ {
		var conn Connection
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}
		if attempt >= opts.MaxRetries {
			return nil, err
		}

		slog.Warn("database connect failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * factor)
		if opts.MaxDelay > 0 && delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}
