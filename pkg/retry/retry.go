package retry

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/pkg/config"
)

// Defaults used when an Options field is zero
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = 400 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultJitter      = 0.2
)

// Options controls a retried operation
type Options struct {
	// MaxAttempts counts the first call
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Jitter is the randomization factor applied to each delay (0.2 = ±20%).
	// Negative disables jitter.
	Jitter float64
	// ShouldRetry decides whether a failure is transient. Defaults to IsRetryable.
	ShouldRetry func(error) bool
	// Name is attached to retry log lines
	Name   string
	Logger *zap.Logger
}

// FromConfig builds options from the retry section of the configuration
func FromConfig(cfg config.RetryConfig) Options {
	return Options{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}
}

// Named returns a copy of o tagged for logging
func (o Options) Named(name string, logger *zap.Logger) Options {
	o.Name = name
	o.Logger = logger
	return o
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.MaxDelay < o.BaseDelay {
		o.MaxDelay = o.BaseDelay
	}
	switch {
	case o.Jitter == 0:
		o.Jitter = DefaultJitter
	case o.Jitter < 0:
		o.Jitter = 0
	case o.Jitter > 1:
		o.Jitter = 1
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = IsRetryable
	}
	return o
}

// policy returns base * 2^(attempt-1) capped at MaxDelay, randomized by Jitter,
// stopping after MaxAttempts calls or when ctx is done.
func (o Options) policy(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.BaseDelay
	bo.MaxInterval = o.MaxDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = o.Jitter
	bo.MaxElapsedTime = 0
	bo.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(o.MaxAttempts-1)), ctx)
}

// Do runs op until it succeeds, returns a non-retryable error, or exhausts
// its attempts. The last error is returned unchanged.
func Do[T any](ctx context.Context, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := op(ctx)
		if err != nil && !opts.ShouldRetry(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	notify := func(err error, wait time.Duration) {
		if opts.Logger != nil {
			opts.Logger.Warn("⏳ Retrying after transient failure",
				zap.String("operation", opts.Name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", opts.MaxAttempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}
	}

	return backoff.RetryNotifyWithData(operation, opts.policy(ctx), notify)
}

// Run is Do for operations without a result
func Run(ctx context.Context, opts Options, op func(ctx context.Context) error) error {
	_, err := Do(ctx, opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
