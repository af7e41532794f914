package fetcher

import (
	"context"
	"net/url"
	"time"

	"github.com/jonesrussell/webcrawl/internal/dnscache"
)

// Simulated performs a best-effort real DNS lookup (so DNS pressure is
// genuine) and a cooperative fixed delay, never touching the network for
// the actual body. It reports success unless ctx is cancelled before the
// delay elapses, in which case it returns status 0 and ctx's error.
type Simulated struct {
	resolver dnscache.Resolver // optional
	delay    time.Duration
}

// NewSimulated builds a simulated fetcher. resolver may be nil to skip the
// DNS step entirely.
func NewSimulated(resolver dnscache.Resolver, delay time.Duration) *Simulated {
	return &Simulated{resolver: resolver, delay: delay}
}

func (s *Simulated) Open(ctx context.Context) error { return nil }
func (s *Simulated) Close() error                    { return nil }

func (s *Simulated) Fetch(ctx context.Context, rawURL string) Result {
	start := time.Now()

	if s.resolver != nil {
		if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
			// Best-effort: DNS failure never fails the simulated fetch.
			_, _ = s.resolver.Resolve(ctx, u.Hostname())
		}
	}

	select {
	case <-ctx.Done():
		return Result{Status: 0, Body: "", DurationSeconds: timeSince(start), Err: ctx.Err()}
	case <-time.After(s.delay):
	}

	return Result{Status: 200, Body: "", DurationSeconds: timeSince(start), Err: nil}
}
