// Package retry provides an exponential-backoff executor for provider calls
// that fail with transient, likely-temporary errors.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
	defaultBackoffFactor  = 2.0
)

// Config encapsulates exponential backoff settings. MaxAttempts counts the
// total number of invocations, including the first one.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// Handler executes retryable operations with backoff.
type Handler struct {
	cfg Config
}

// New constructs a handler, filling in sane defaults.
func New(cfg Config) *Handler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = defaultBackoffFactor
	}
	return &Handler{cfg: cfg}
}

// MaxAttempts reports the configured attempt budget.
func (h *Handler) MaxAttempts() int {
	return h.cfg.MaxAttempts
}

// Do executes fn until it succeeds, fails with a non-transient error, or
// exhausts the attempt budget. Backoff waits block only the calling
// goroutine and abort early when ctx is cancelled. The op label is used for
// logging only.
func (h *Handler) Do(ctx context.Context, op string, fn func() error) error {
	backoff := h.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == h.cfg.MaxAttempts {
			break
		}

		logx.Infof("retry: %s attempt %d/%d failed, backing off %s: %v",
			op, attempt, h.cfg.MaxAttempts, backoff, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(math.Min(
			float64(h.cfg.MaxBackoff),
			float64(backoff)*h.cfg.Multiplier,
		))
	}

	logx.Errorf("retry: %s gave up after %d attempts: %v", op, h.cfg.MaxAttempts, lastErr)
	return lastErr
}
