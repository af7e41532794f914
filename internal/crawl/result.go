// Package crawl holds the shared Result record and the lifecycle driver
// that wires the frontier, worker pool, fetcher, and telemetry together.
package crawl

// Result is emitted by a worker for every completed fetch attempt and
// consumed by the progress observer. It is created, delivered, and
// discarded; nothing retains it afterward.
type Result struct {
	URL             string
	Host            string
	Status          int
	Links           int
	DurationSeconds float64
	Err             error
}

// Observer receives every Result as it completes.
type Observer interface {
	Observe(Result)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(Result)

func (f ObserverFunc) Observe(r Result) { f(r) }

// WorkerStats is a point-in-time snapshot of worker pool activity, fed
// into the shutdown summary. It lives here rather than in the worker
// package so the lifecycle driver can depend on the type without crawl
// importing worker, which already imports crawl for Result/Observer.
type WorkerStats struct {
	PoolSize  int
	Busy      int
	Idle      int
	Processed int64
	Succeeded int64
	Failed    int64
}
