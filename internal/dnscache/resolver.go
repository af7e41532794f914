// Package dnscache resolves hostnames asynchronously with an optional
// bounded, TTL-expiring cache layered in front of the standard resolver.
package dnscache

import (
	"context"
	"net"
	"sync"
	"time"
)

// Resolver resolves a hostname to a list of IP strings.
type Resolver interface {
	Resolve(ctx context.Context, hostname string) ([]string, error)
}

// netResolver offloads net.Resolver.LookupHost (a blocking syscall) to a
// goroutine so callers can select on ctx cancellation; no lightweight
// client-side DNS library is warranted for a single hostname lookup.
type netResolver struct {
	resolver *net.Resolver
}

// NewNetResolver returns a Resolver backed by the standard library.
func NewNetResolver() Resolver {
	return &netResolver{resolver: net.DefaultResolver}
}

func (r *netResolver) Resolve(ctx context.Context, hostname string) ([]string, error) {
	type result struct {
		ips []string
		err error
	}
	ch := make(chan result, 1)

	go func() {
		ips, err := r.resolver.LookupHost(ctx, hostname)
		ch <- result{ips: ips, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.ips, res.err
	}
}

type cacheEntry struct {
	ips       []string
	expiresAt time.Time
}

// HitMissSink receives cache accounting events; *telemetry.Metrics
// satisfies this without dnscache importing the telemetry package's
// concrete type.
type HitMissSink interface {
	RecordDNSHit()
	RecordDNSMiss()
	SetDNSCacheSize(n int)
}

type nopSink struct{}

func (nopSink) RecordDNSHit()         {}
func (nopSink) RecordDNSMiss()        {}
func (nopSink) SetDNSCacheSize(n int) {}

// CachingResolver wraps a Resolver with a bounded, TTL-expiring cache.
// Eviction is insertion-order (oldest inserted key evicted first) once the
// cache reaches maxEntries; the contract only requires bounded size.
type CachingResolver struct {
	next       Resolver
	ttl        time.Duration
	maxEntries int
	sink       HitMissSink

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
}

// NewCachingResolver wraps next with a cache of at most maxEntries live
// entries, each valid for ttl. sink may be nil.
func NewCachingResolver(next Resolver, maxEntries int, ttl time.Duration, sink HitMissSink) *CachingResolver {
	if sink == nil {
		sink = nopSink{}
	}
	return &CachingResolver{
		next:       next,
		ttl:        ttl,
		maxEntries: maxEntries,
		sink:       sink,
		entries:    make(map[string]cacheEntry),
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, hostname string) ([]string, error) {
	now := time.Now()

	c.mu.Lock()
	entry, ok := c.entries[hostname]
	if ok && now.Before(entry.expiresAt) {
		c.mu.Unlock()
		c.sink.RecordDNSHit()
		return entry.ips, nil
	}
	c.mu.Unlock()

	c.sink.RecordDNSMiss()
	ips, err := c.next.Resolve(ctx, hostname)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[hostname]; !exists {
		c.order = append(c.order, hostname)
	}
	c.entries[hostname] = cacheEntry{ips: ips, expiresAt: now.Add(c.ttl)}
	c.evictLocked()
	c.sink.SetDNSCacheSize(len(c.entries))

	return ips, nil
}

// evictLocked removes the oldest-inserted entries until the cache fits
// within maxEntries. Caller must hold c.mu.
func (c *CachingResolver) evictLocked() {
	if c.maxEntries <= 0 {
		return
	}
	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Size reports the current number of cached entries.
func (c *CachingResolver) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
