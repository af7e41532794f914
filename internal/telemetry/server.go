package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/webcrawl/internal/logging"
)

// DefaultShutdownTimeout bounds how long Stop waits for in-flight scrapes.
const DefaultShutdownTimeout = 5 * time.Second

// Server serves the Prometheus scrape endpoint.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
}

// NewServer builds (but does not start) a scrape server bound to addr,
// e.g. ":9090".
func NewServer(addr string, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		log: log,
	}
}

// Start runs the server in a goroutine and reports unexpected failures on
// the returned channel; a clean Stop() does not produce an error.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("telemetry server listening", logging.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		close(errCh)
	}()
	return errCh
}

// Stop gracefully shuts the server down within DefaultShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
