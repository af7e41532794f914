// Package frontier implements the crawler's sole admission, dispatch, and
// rate-limiting authority: per-host FIFO queues, a dedup index, and the
// two politeness gates (concurrency cap and minimum inter-request gap).
package frontier

import (
	"sync"
	"time"

	"github.com/jonesrussell/webcrawl/internal/dedup"
	"github.com/jonesrussell/webcrawl/internal/logging"
)

// Gauge is the narrow method set the frontier needs to report queue size;
// *prometheus.GaugeVec's WithLabelValues(...) result satisfies it, but the
// frontier never imports prometheus directly.
type Gauge interface {
	Inc()
	Dec()
}

type nopGauge struct{}

func (nopGauge) Inc() {}
func (nopGauge) Dec() {}

type hostState struct {
	queue      []string
	active     int
	lastAccess time.Time
}

// Frontier is the central crawl data structure. All exported methods are
// safe for concurrent use; next() never suspends or performs I/O.
type Frontier struct {
	mu sync.Mutex

	dedup        dedup.Index
	maxPerHost   int
	delayPerHost time.Duration

	hosts      map[string]*hostState
	order      []string // insertion order of host keys, scanned round-robin by next()
	cursor     int
	queueSize  int
	queueGauge Gauge

	log             logging.Logger
	bloomWarnOnce   sync.Once
}

// Config holds frontier construction parameters.
type Config struct {
	Dedup        dedup.Index
	MaxPerHost   int
	DelayPerHost time.Duration
	QueueGauge   Gauge // optional; nil disables gauge reporting
	Logger       logging.Logger
}

// New constructs a Frontier. MaxPerHost must be >= 1.
func New(cfg Config) *Frontier {
	gauge := cfg.QueueGauge
	if gauge == nil {
		gauge = nopGauge{}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	maxPerHost := cfg.MaxPerHost
	if maxPerHost < 1 {
		maxPerHost = 1
	}
	return &Frontier{
		dedup:        cfg.Dedup,
		maxPerHost:   maxPerHost,
		delayPerHost: cfg.DelayPerHost,
		hosts:        make(map[string]*hostState),
		queueGauge:   gauge,
		log:          log,
	}
}

// Add validates, deduplicates, and enqueues a URL. It never blocks and
// never returns an error: rejection (bad scheme, duplicate, at-capacity
// dedup) is always a silent no-op per the failure model.
//
// The dedup check-and-insert and the enqueue must happen as one atomic
// step under f.mu: two concurrent Add calls for the same new URL would
// otherwise both observe Contains==false and both get ok==true back from
// dedup.Add (both backends are idempotent, not exclusive), double-enqueuing
// the URL. Holding f.mu across the whole sequence serializes dedup access
// through the frontier's own lock instead of relying on the dedup index's
// internal locking for exclusivity it was never designed to provide.
func (f *Frontier) Add(raw string) {
	normalized, host, ok := admit(raw)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dedup.Contains(normalized) {
		return
	}

	admitted := f.dedup.Add(normalized)
	if !admitted {
		f.bloomWarnOnce.Do(func() {
			f.log.Warn("dedup index at capacity, dropping further URLs", logging.String("url", normalized))
		})
		return
	}

	hs, exists := f.hosts[host]
	if !exists {
		hs = &hostState{}
		f.hosts[host] = hs
		f.order = append(f.order, host)
	}
	hs.queue = append(hs.queue, normalized)
	f.queueSize++
	f.queueGauge.Inc()
}

// Next selects an eligible host (non-empty queue, active < maxPerHost,
// now-lastAccess >= delayPerHost), dequeues its head, and marks it
// dispatched. ok is false when no host currently qualifies; callers should
// treat that as "yield briefly and retry", not as an error.
func (f *Frontier) Next() (host, u string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.order)
	if n == 0 {
		return "", "", false
	}

	now := time.Now()
	for i := 0; i < n; i++ {
		idx := (f.cursor + i) % n
		h := f.order[idx]
		hs := f.hosts[h]
		if hs == nil || len(hs.queue) == 0 {
			continue
		}
		if hs.active >= f.maxPerHost {
			continue
		}
		if f.delayPerHost > 0 && !hs.lastAccess.IsZero() && now.Sub(hs.lastAccess) < f.delayPerHost {
			continue
		}

		u = hs.queue[0]
		hs.queue = hs.queue[1:]
		hs.active++
		hs.lastAccess = now
		f.queueSize--
		f.queueGauge.Dec()
		f.cursor = (idx + 1) % n
		return h, u, true
	}

	return "", "", false
}

// Release decrements the active in-flight count for host. Releasing an
// untracked or already-zero host is a silent no-op (defensive against
// races during shutdown).
func (f *Frontier) Release(host string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hs, ok := f.hosts[host]
	if !ok || hs.active == 0 {
		return
	}
	hs.active--
}

// Stats is an observability snapshot of frontier state.
type Stats struct {
	QueueSize int
	Active    int
	Hosts     int
}

// Snapshot returns the current totals across all hosts.
func (f *Frontier) Snapshot() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := 0
	for _, hs := range f.hosts {
		active += hs.active
	}
	return Stats{
		QueueSize: f.queueSize,
		Active:    active,
		Hosts:     len(f.hosts),
	}
}
