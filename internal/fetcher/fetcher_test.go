package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealFetchReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := NewReal(RealConfig{Timeout: time.Second})
	res := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, res.Err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "<html></html>", res.Body)
	assert.GreaterOrEqual(t, res.DurationSeconds, 0.0)
}

func TestRealFetchReportsTransportError(t *testing.T) {
	f := NewReal(RealConfig{Timeout: 50 * time.Millisecond})
	res := f.Fetch(context.Background(), "http://127.0.0.1:1")

	assert.Error(t, res.Err)
	assert.Equal(t, 0, res.Status)
}

func TestSimulatedFetchSleepsAndSucceeds(t *testing.T) {
	f := NewSimulated(nil, 20*time.Millisecond)
	res := f.Fetch(context.Background(), "https://a.example.com/")

	require.NoError(t, res.Err)
	assert.Equal(t, 200, res.Status)
	assert.GreaterOrEqual(t, res.DurationSeconds, 0.020)
}

func TestSimulatedFetchRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewSimulated(nil, time.Second)
	res := f.Fetch(ctx, "https://a.example.com/")
	assert.Error(t, res.Err)
}
