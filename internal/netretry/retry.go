// Package netretry provides a bounded exponential-backoff retry helper for
// transient transport errors encountered by a single fetch attempt.
package netretry

import (
	"context"
	"errors"
	"math"
	"net"
	"strings"
	"time"
)

// Config controls retry timing.
type Config struct {
	MaxAttempts int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	IsRetryable  func(error) bool
}

// DefaultConfig mirrors the transport-retry budget used by the real fetcher:
// a couple of short-backoff attempts, not a long-running resilience policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  2,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2,
		IsRetryable:  DefaultIsRetryable,
	}
}

// DefaultIsRetryable treats connection-level and DNS hiccups as retryable;
// HTTP status codes are never passed through this path (the fetcher decides
// those without retrying).
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, substr := range []string{"connection refused", "connection reset", "no such host", "timeout", "temporary failure"} {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Do runs fn, retrying per cfg while ctx is not done and fn's error is
// retryable. The last error (retryable or not) is returned on exhaustion.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = DefaultIsRetryable
	}

	var lastErr error
	delay := cfg.InitialDelay
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !cfg.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(math.Min(float64(cfg.MaxDelay), float64(delay)*cfg.Multiplier))
	}
	return lastErr
}
