package crawl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPool struct {
	started chan struct{}
	done    chan struct{}
}

func newStubPool() *stubPool {
	return &stubPool{started: make(chan struct{}, 1), done: make(chan struct{})}
}

func (s *stubPool) Start(ctx context.Context) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	go func() {
		<-ctx.Done()
		close(s.done)
	}()
}

func (s *stubPool) Wait() { <-s.done }

func (s *stubPool) Stats() WorkerStats {
	return WorkerStats{PoolSize: 1, Processed: 1, Succeeded: 1}
}

type stubFrontier struct {
	added []string
}

func (s *stubFrontier) Add(url string) { s.added = append(s.added, url) }

func TestDriverShutsDownAtMaxPages(t *testing.T) {
	pool := newStubPool()
	fr := &stubFrontier{}

	d := New(DriverConfig{
		Pool:     pool,
		Frontier: fr,
		MaxPages: 1,
	})

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), []string{"https://a/"}) }()

	require.Eventually(t, func() bool {
		select {
		case <-pool.started:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	d.Observe(Result{URL: "https://a/", Status: 200})

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("driver did not shut down after reaching max pages")
	}

	assert.Equal(t, int64(1), d.Completed())
	assert.Equal(t, []string{"https://a/"}, fr.added)
	assert.Equal(t, int64(1), d.FinalStats().Processed)
}

func TestSummaryFormatsQPS(t *testing.T) {
	s := Summary(100, time.Second, WorkerStats{Succeeded: 90, Failed: 10})
	assert.Contains(t, s, "crawled=100")
	assert.Contains(t, s, "qps=100.00")
	assert.Contains(t, s, "succeeded=90")
	assert.Contains(t, s, "failed=10")
}
