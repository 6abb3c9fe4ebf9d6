// Package httpapi exposes the sync API over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/logging"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
	"github.com/amyzhang-commits/spanish-cards/internal/server/cards"
)

// Service is the merge service consumed by the handlers.
type Service interface {
	Push(ctx context.Context, deviceID string, batch []*models.Card) (int, error)
	Pull(ctx context.Context, deviceID string, since int64) ([]*models.Card, error)
	Stats(ctx context.Context) (*cards.Stats, error)
}

// Server serves the sync API endpoints.
type Server struct {
	address string
	logger  logging.Logger
	cards   Service
	now     func() time.Time
}

// NewServer constructs an HTTP server for the given card service.
func NewServer(address string, l logging.Logger, cards Service) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		cards:   cards,
		now:     time.Now,
	}
}

// Handler builds the route table. Exposed separately from Run so tests can
// drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/cards", s.handleUpload)
	mux.HandleFunc("GET /api/cards/{device_id}", s.handleDownload)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	return mux
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
