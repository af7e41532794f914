// Package fetcher defines the fetch contract shared by the real HTTP
// fetcher and the simulated fetcher, and provides both realizations.
package fetcher

import (
	"context"
	"time"
)

// Result is the outcome of a single fetch attempt.
type Result struct {
	Status          int
	Body            string
	DurationSeconds float64
	Err             error
}

// Fetcher is satisfied by both the real and simulated implementations.
// Open/Close bracket the scoped resource lifecycle (connection pools,
// simulated-mode no-ops) described by the acquisition/release discipline.
type Fetcher interface {
	Open(ctx context.Context) error
	Fetch(ctx context.Context, url string) Result
	Close() error
}

func timeSince(start time.Time) float64 {
	return time.Since(start).Seconds()
}
