package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server exposes the registry over HTTP
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server bound to addr serving path
func NewServer(addr, path string) *Server {
	mux := http.NewServeMux()
	mux.Handle(path, Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background. Listen errors other than a clean shutdown
// are delivered on the returned channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
