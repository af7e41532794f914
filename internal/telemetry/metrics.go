// Package telemetry wires the nine crawl metrics into Prometheus and serves
// them on a scrape endpoint.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "crawler"
)

// Labels is the fixed label set every metric carries, assigned once at
// construction.
type Labels struct {
	Mode      string // "real", "simulation", or "collector"
	DNSCache  string // "on" or "off"
	Workers   string // worker count, as a string
}

// Metrics holds concrete, pre-labeled metric handles so hot paths never pay
// for a WithLabelValues lookup.
type Metrics struct {
	PagesCrawledTotal     prometheus.Counter
	ActiveRequests        prometheus.Gauge
	QueueSize             prometheus.Gauge
	RequestDurationSeconds prometheus.Observer
	DNSCacheHitsTotal     prometheus.Counter
	DNSCacheMissesTotal   prometheus.Counter
	DNSCacheSize          prometheus.Gauge
	FetchSuccessTotal     prometheus.Counter
	FetchFailureTotal     prometheus.Counter
}

// New registers the nine metrics against reg (prometheus.DefaultRegisterer
// if nil) labeled with labels, and returns handles bound to that one label
// combination.
func New(reg prometheus.Registerer, labels Labels) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	labelNames := []string{"mode", "dns_cache", "workers"}
	lv := []string{labels.Mode, labels.DNSCache, labels.Workers}

	pagesCrawled := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_crawled_total",
		Help:      "Fetches completed, any outcome.",
	}, labelNames)

	activeRequests := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_requests",
		Help:      "In-flight fetches right now.",
	}, labelNames)

	queueSize := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_size",
		Help:      "URLs waiting in the frontier.",
	}, labelNames)

	requestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Per-fetch elapsed time.",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, labelNames)

	dnsHits := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dns_cache_hits_total",
		Help:      "DNS cache hits.",
	}, labelNames)

	dnsMisses := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dns_cache_misses_total",
		Help:      "DNS cache misses.",
	}, labelNames)

	dnsSize := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dns_cache_size",
		Help:      "Current DNS cache entries.",
	}, labelNames)

	fetchSuccess := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_success_total",
		Help:      "Fetches that returned 2xx with no error.",
	}, labelNames)

	fetchFailure := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failure_total",
		Help:      "Fetches that errored or returned a non-2xx status.",
	}, labelNames)

	return &Metrics{
		PagesCrawledTotal:      pagesCrawled.WithLabelValues(lv...),
		ActiveRequests:         activeRequests.WithLabelValues(lv...),
		QueueSize:              queueSize.WithLabelValues(lv...),
		RequestDurationSeconds: requestDuration.WithLabelValues(lv...),
		DNSCacheHitsTotal:      dnsHits.WithLabelValues(lv...),
		DNSCacheMissesTotal:    dnsMisses.WithLabelValues(lv...),
		DNSCacheSize:           dnsSize.WithLabelValues(lv...),
		FetchSuccessTotal:      fetchSuccess.WithLabelValues(lv...),
		FetchFailureTotal:      fetchFailure.WithLabelValues(lv...),
	}
}

// RecordFetch updates the post-fetch metrics for one completed Result.
func (m *Metrics) RecordFetch(status int, durationSeconds float64, success bool) {
	m.PagesCrawledTotal.Inc()
	m.RequestDurationSeconds.Observe(durationSeconds)
	if success {
		m.FetchSuccessTotal.Inc()
	} else {
		m.FetchFailureTotal.Inc()
	}
}

// RecordDNSHit/RecordDNSMiss/SetDNSCacheSize update the DNS cache metrics.
func (m *Metrics) RecordDNSHit()         { m.DNSCacheHitsTotal.Inc() }
func (m *Metrics) RecordDNSMiss()        { m.DNSCacheMissesTotal.Inc() }
func (m *Metrics) SetDNSCacheSize(n int) { m.DNSCacheSize.Set(float64(n)) }

// ActiveRequestsInc/Dec track in-flight fetch count.
func (m *Metrics) ActiveRequestsInc() { m.ActiveRequests.Inc() }
func (m *Metrics) ActiveRequestsDec() { m.ActiveRequests.Dec() }
