// Package worker runs the fixed-size pool of cooperative workers that
// drain the frontier: pull a URL, fetch it, extract links, feed them back,
// release the host, and report the result.
package worker

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonesrussell/webcrawl/internal/crawl"
	"github.com/jonesrussell/webcrawl/internal/extract"
	"github.com/jonesrussell/webcrawl/internal/fetcher"
	"github.com/jonesrussell/webcrawl/internal/logging"
)

// Frontier is the narrow slice of frontier.Frontier's method set a worker
// needs; accepting an interface keeps this package testable without a real
// frontier.
type Frontier interface {
	Next() (host, url string, ok bool)
	Release(host string)
	Add(url string)
}

// Metrics is the narrow slice of telemetry.Metrics a worker updates.
type Metrics interface {
	ActiveRequestsInc()
	ActiveRequestsDec()
	RecordFetch(status int, durationSeconds float64, success bool)
}

type nopMetrics struct{}

func (nopMetrics) ActiveRequestsInc()                              {}
func (nopMetrics) ActiveRequestsDec()                              {}
func (nopMetrics) RecordFetch(status int, duration float64, ok bool) {}

// emptyPollMin/Max bound the sleep a worker takes after Frontier.Next
// returns nothing, matching the 10-100ms polling window.
const (
	emptyPollMin = 10 * time.Millisecond
	emptyPollMax = 100 * time.Millisecond
)

// Stats is a point-in-time snapshot of pool activity; an alias onto
// crawl.WorkerStats so the lifecycle driver can consume it without crawl
// importing this package.
type Stats = crawl.WorkerStats

// Pool runs a fixed number of workers until its context is cancelled.
type Pool struct {
	frontier  Frontier
	fetch     fetcher.Fetcher
	extractor extract.Extractor
	metrics   Metrics
	observer  crawl.Observer
	log       logging.Logger

	count int

	busy      int64
	processed int64
	succeeded int64
	failed    int64

	wg sync.WaitGroup
}

// Config configures a worker Pool.
type Config struct {
	Count     int
	Frontier  Frontier
	Fetcher   fetcher.Fetcher
	Extractor extract.Extractor
	Metrics   Metrics // optional
	Observer  crawl.Observer
	Logger    logging.Logger
}

// New builds a Pool. Call Start to launch workers.
func New(cfg Config) *Pool {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	count := cfg.Count
	if count < 1 {
		count = 1
	}
	return &Pool{
		frontier:  cfg.Frontier,
		fetch:     cfg.Fetcher,
		extractor: cfg.Extractor,
		metrics:   metrics,
		observer:  cfg.Observer,
		log:       log,
		count:     count,
	}
}

// Start launches all workers; they run until ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Wait blocks until all workers have exited (after Start and a ctx cancel).
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats returns the current busy/idle and processed/succeeded/failed totals.
func (p *Pool) Stats() Stats {
	busy := int(atomic.LoadInt64(&p.busy))
	idle := p.count - busy
	if idle < 0 {
		idle = 0
	}
	return Stats{
		PoolSize:  p.count,
		Busy:      busy,
		Idle:      idle,
		Processed: atomic.LoadInt64(&p.processed),
		Succeeded: atomic.LoadInt64(&p.succeeded),
		Failed:    atomic.LoadInt64(&p.failed),
	}
}

func (p *Pool) run(ctx context.Context, workerID int) {
	defer p.wg.Done()

	rng := rand.New(rand.NewSource(int64(workerID) + 1))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		host, url, ok := p.frontier.Next()
		if !ok {
			if !sleepOrCancel(ctx, emptyPollMin+time.Duration(rng.Int63n(int64(emptyPollMax-emptyPollMin)))) {
				return
			}
			continue
		}

		p.process(ctx, host, url)
	}
}

// process runs one fetch/extract/feed-back cycle. The host is released
// exactly once, before the result is reported; the deferred release covers
// every other exit path, including a panic unwinding through here,
// mirroring the scoped acquisition/release discipline required of the
// frontier's per-host state.
func (p *Pool) process(ctx context.Context, host, url string) {
	atomic.AddInt64(&p.busy, 1)
	defer atomic.AddInt64(&p.busy, -1)

	released := false
	release := func() {
		if !released {
			released = true
			p.frontier.Release(host)
		}
	}
	defer release()

	p.metrics.ActiveRequestsInc()
	start := time.Now()
	res := p.fetch.Fetch(ctx, url)
	p.metrics.ActiveRequestsDec()

	duration := res.DurationSeconds
	if duration == 0 {
		duration = time.Since(start).Seconds()
	}

	success := res.Err == nil && res.Status >= 200 && res.Status < 300
	p.metrics.RecordFetch(res.Status, duration, success)

	atomic.AddInt64(&p.processed, 1)
	if success {
		atomic.AddInt64(&p.succeeded, 1)
	} else {
		atomic.AddInt64(&p.failed, 1)
	}

	var links []string
	if res.Err == nil && res.Status == 200 {
		links = p.extractor.Extract([]byte(res.Body), url)
		for _, link := range links {
			p.frontier.Add(link)
		}
	}

	if res.Err != nil {
		p.log.Info("fetch failed", logging.String("url", url), logging.Err(res.Err))
	} else {
		p.log.Info("fetch complete",
			logging.String("url", url),
			logging.Int("status", res.Status),
			logging.Int("links", len(links)))
	}

	release()

	if p.observer != nil {
		p.observer.Observe(crawl.Result{
			URL:             url,
			Host:            host,
			Status:          res.Status,
			Links:           len(links),
			DurationSeconds: duration,
			Err:             res.Err,
		})
	}
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
