package crawl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/webcrawl/internal/fetcher"
	"github.com/jonesrussell/webcrawl/internal/logging"
	"github.com/jonesrussell/webcrawl/internal/telemetry"
)

// WorkerPool is the narrow slice of worker.Pool the driver depends on.
// Stats returns WorkerStats (defined in this package, not worker.Stats)
// so the method can be required here without crawl importing worker and
// creating a cycle back through worker's own dependency on crawl for
// Result/Observer; worker.Stats is a type alias onto this same type.
type WorkerPool interface {
	Start(ctx context.Context)
	Wait()
	Stats() WorkerStats
}

// Frontier is the narrow slice of frontier.Frontier the driver seeds
// directly; everything else happens through the worker pool.
type Frontier interface {
	Add(url string)
}

// Driver owns the run loop: it seeds the frontier, starts the worker pool
// and telemetry server, waits for the page budget or an external stop
// signal, then cancels and drains everything.
type Driver struct {
	pool      WorkerPool
	frontier  Frontier
	fetcher   fetcher.Fetcher
	telemetry *telemetry.Server
	log       logging.Logger
	maxPages  int64

	sessionID string

	completed    int64
	finalStats   WorkerStats
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// DriverConfig configures a Driver.
type DriverConfig struct {
	Pool      WorkerPool
	Frontier  Frontier
	Fetcher   fetcher.Fetcher
	Telemetry *telemetry.Server
	Logger    logging.Logger
	MaxPages  int
}

// SetPool attaches the worker pool to an already-constructed Driver. This
// exists because the pool's Observer (the driver itself, via Observe) must
// be wired before the pool can be built, while Run needs the pool.
func (d *Driver) SetPool(p WorkerPool) {
	d.pool = p
}

// New builds a Driver.
func New(cfg DriverConfig) *Driver {
	sessionID := uuid.NewString()
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With(logging.String("session_id", sessionID))
	return &Driver{
		pool:      cfg.Pool,
		frontier:  cfg.Frontier,
		fetcher:   cfg.Fetcher,
		telemetry: cfg.Telemetry,
		log:       log,
		maxPages:  int64(cfg.MaxPages),
		sessionID: sessionID,
		shutdown:  make(chan struct{}),
	}
}

// SessionID returns the correlation ID generated for this run. It is
// attached as session_id to the driver's own log lines; metrics and the
// per-fetch lines printed by Observe do not carry it.
func (d *Driver) SessionID() string {
	return d.sessionID
}

// Observe implements Observer: it counts completions and logs one summary
// line per fetch per the external log-output contract, signaling shutdown
// once maxPages is reached.
func (d *Driver) Observe(r Result) {
	count := atomic.AddInt64(&d.completed, 1)

	if r.Err != nil {
		fmt.Printf("[%d] ERROR %s: %s\n", count, r.URL, r.Err)
	} else {
		fmt.Printf("[%d] %d %s (%.3fs, %d links)\n", count, r.Status, r.URL, r.DurationSeconds, r.Links)
	}

	if d.maxPages > 0 && count >= d.maxPages {
		d.signalShutdown()
	}
}

func (d *Driver) signalShutdown() {
	d.shutdownOnce.Do(func() { close(d.shutdown) })
}

// Run seeds the frontier with seeds, starts the pool and telemetry server,
// and blocks until the page budget is reached or INT/TERM is received.
// It always returns after a full, graceful drain.
func (d *Driver) Run(ctx context.Context, seeds []string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.log.Info("crawl session starting")

	if d.fetcher != nil {
		if err := d.fetcher.Open(runCtx); err != nil {
			return fmt.Errorf("open fetcher: %w", err)
		}
	}

	var telemetryErrCh <-chan error
	if d.telemetry != nil {
		telemetryErrCh = d.telemetry.Start()
	}

	d.pool.Start(runCtx)

	for _, seed := range seeds {
		d.frontier.Add(seed)
	}

	select {
	case <-d.shutdown:
		d.log.Info("page budget reached, shutting down")
	case sig := <-sigCh:
		d.log.Info("stop signal received, shutting down", logging.String("signal", sig.String()))
	case err := <-telemetryErrCh:
		if err != nil {
			d.log.Error("telemetry server failed", logging.Err(err))
		}
	case <-ctx.Done():
	}

	cancel()
	d.pool.Wait()
	d.finalStats = d.pool.Stats()

	if d.fetcher != nil {
		_ = d.fetcher.Close()
	}
	if d.telemetry != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), telemetry.DefaultShutdownTimeout)
		defer stopCancel()
		_ = d.telemetry.Stop(stopCtx)
	}

	return nil
}

// Completed returns the total fetch completions observed so far.
func (d *Driver) Completed() int64 {
	return atomic.LoadInt64(&d.completed)
}

// FinalStats returns the worker pool's stats snapshot taken right after
// Run drained it, for inclusion in the exit-time summary.
func (d *Driver) FinalStats() WorkerStats {
	return d.finalStats
}

// Summary formats the final exit-time report: count, elapsed, QPS, and the
// worker pool's succeeded/failed totals.
func Summary(completed int64, elapsed time.Duration, stats WorkerStats) string {
	seconds := elapsed.Seconds()
	qps := 0.0
	if seconds > 0 {
		qps = float64(completed) / seconds
	}
	return fmt.Sprintf("crawled=%d elapsed=%s qps=%.2f succeeded=%d failed=%d",
		completed, elapsed.Round(time.Millisecond), qps, stats.Succeeded, stats.Failed)
}
