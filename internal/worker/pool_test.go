package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonesrussell/webcrawl/internal/crawl"
	"github.com/jonesrussell/webcrawl/internal/dedup"
	"github.com/jonesrussell/webcrawl/internal/fetcher"
	"github.com/jonesrussell/webcrawl/internal/frontier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	status int
	body   string
	err    error
}

func (s *stubFetcher) Open(ctx context.Context) error { return nil }
func (s *stubFetcher) Close() error                   { return nil }
func (s *stubFetcher) Fetch(ctx context.Context, url string) fetcher.Result {
	return fetcher.Result{Status: s.status, Body: s.body, DurationSeconds: 0.001, Err: s.err}
}

type stubExtractor struct {
	links []string
}

func (s *stubExtractor) Extract(body []byte, base string) []string {
	return s.links
}

type collectingObserver struct {
	mu      sync.Mutex
	results []crawl.Result
}

func (c *collectingObserver) Observe(r crawl.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collectingObserver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func TestPoolSeedOnlyScenario(t *testing.T) {
	f := frontier.New(frontier.Config{Dedup: dedup.NewExact(), MaxPerHost: 1})
	f.Add("https://example.com/a")

	obs := &collectingObserver{}
	p := New(Config{
		Count:     1,
		Frontier:  f,
		Fetcher:   &stubFetcher{status: 200, body: "<html></html>"},
		Extractor: &stubExtractor{},
		Observer:  obs,
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	require.Eventually(t, func() bool { return obs.count() == 1 }, time.Second, time.Millisecond)
	cancel()
	p.Wait()

	snap := f.Snapshot()
	assert.Equal(t, 0, snap.QueueSize)
	assert.Equal(t, 0, snap.Active)
	assert.Equal(t, int64(1), p.Stats().Processed)
}

func TestPoolLinkExpansion(t *testing.T) {
	f := frontier.New(frontier.Config{Dedup: dedup.NewExact(), MaxPerHost: 10})
	f.Add("https://s/")

	obs := &collectingObserver{}
	p := New(Config{
		Count:     2,
		Frontier:  f,
		Fetcher:   &stubFetcher{status: 200, body: "<html></html>"},
		Extractor: &stubExtractor{links: []string{"https://s/1", "https://s/2", "https://t/1"}},
		Observer:  obs,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	require.Eventually(t, func() bool { return obs.count() >= 4 }, time.Second, time.Millisecond)

	cancel()
	p.Wait()
	assert.Equal(t, 2, f.Snapshot().Hosts)
}

func TestPoolCancellationStopsWorkers(t *testing.T) {
	f := frontier.New(frontier.Config{Dedup: dedup.NewExact(), MaxPerHost: 1})

	p := New(Config{
		Count:     2,
		Frontier:  f,
		Fetcher:   &stubFetcher{status: 200},
		Extractor: &stubExtractor{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after cancellation")
	}
}
