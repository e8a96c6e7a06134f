package ygggo_jdbd

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls LoadWithRetry.
type RetryPolicy struct {
	// MaxAttempts counts the first try; <= 0 means a single attempt.
	MaxAttempts int           `yaml:"max_attempts"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
	Jitter      bool          `yaml:"jitter"`
	// MaxElapsed bounds the total time spent; zero means no bound.
	MaxElapsed time.Duration `yaml:"max_elapsed"`
}

// LoadWithRetry calls d.Load until it succeeds, the policy is exhausted
// or ctx is done. Only load failures (ErrLibraryLoad) are retried: a
// driver that was already unloaded fails immediately.
//
// Drivers never retry on their own; this helper is for callers that
// want it.
func LoadWithRetry(ctx context.Context, d DatabaseDriver, pol RetryPolicy) error {
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = 1
	}
	if pol.BaseBackoff <= 0 {
		pol.BaseBackoff = 10 * time.Millisecond
	}
	if pol.MaxBackoff < pol.BaseBackoff {
		pol.MaxBackoff = pol.BaseBackoff
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = pol.BaseBackoff
	eb.MaxInterval = pol.MaxBackoff
	eb.MaxElapsedTime = pol.MaxElapsed
	if !pol.Jitter {
		eb.RandomizationFactor = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(pol.MaxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := d.Load(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrLibraryLoad) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
