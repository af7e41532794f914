package dedup

import "sync"

// Exact is a map-backed Index with no false positives and no capacity
// limit; memory grows with the number of distinct URLs ever admitted.
type Exact struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewExact returns an empty exact dedup index.
func NewExact() *Exact {
	return &Exact{seen: make(map[string]struct{})}
}

func (e *Exact) Contains(u string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.seen[u]
	return ok
}

// Add is an idempotent check-then-insert under a single lock; it always
// succeeds since the exact backend has no capacity bound.
func (e *Exact) Add(u string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[u]; ok {
		return true
	}
	e.seen[u] = struct{}{}
	return true
}

func (e *Exact) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.seen)
}
