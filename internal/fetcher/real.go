package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/webcrawl/internal/netretry"
)

// maxResponseBodyBytes bounds how much of a response body is read; the
// crawler only needs the bytes the extractor can plausibly use.
const maxResponseBodyBytes = 10 << 20 // 10 MB

// Real issues actual HTTP GETs. Connection pooling per host is handled by
// the underlying http.Transport; the frontier already caps concurrency per
// host, so the client applies no additional limit of its own.
type Real struct {
	client      *http.Client
	userAgent   string
	retryConfig netretry.Config
}

// RealConfig configures the real fetcher.
type RealConfig struct {
	Timeout     time.Duration
	UserAgent   string
	RetryConfig netretry.Config
}

// NewReal builds a real HTTP fetcher. A zero RetryConfig falls back to
// netretry.DefaultConfig().
func NewReal(cfg RealConfig) *Real {
	retryCfg := cfg.RetryConfig
	if retryCfg.MaxAttempts == 0 {
		retryCfg = netretry.DefaultConfig()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Real{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
			},
		},
		userAgent:   cfg.UserAgent,
		retryConfig: retryCfg,
	}
}

func (r *Real) Open(ctx context.Context) error { return nil }
func (r *Real) Close() error                   { return nil }

// Fetch performs one GET, retrying a bounded number of times on transient
// transport errors via netretry. duration is always the total wall-clock
// time spent across all attempts.
func (r *Real) Fetch(ctx context.Context, url string) Result {
	start := time.Now()

	var status int
	var body string

	err := netretry.Do(ctx, r.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if r.userAgent != "" {
			req.Header.Set("User-Agent", r.userAgent)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
		if err != nil {
			return err
		}

		status = resp.StatusCode
		body = string(data)
		return nil
	})

	if err != nil {
		return Result{Status: 0, Body: "", DurationSeconds: timeSince(start), Err: err}
	}
	return Result{Status: status, Body: body, DurationSeconds: timeSince(start), Err: nil}
}
