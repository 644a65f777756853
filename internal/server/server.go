// Package server exposes the finance engine and betting statistics over a
// JSON HTTP API and streams betting-log changes to subscribers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashflow/internal/betting"
)

// BetLister is the read side of the betting store.
type BetLister interface {
	ListBets() ([]betting.Bet, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	Currency     string
}

// Service serves the HTTP API and polls the betting log.
type Service struct {
	cfg  Config
	bets BetLister
	log  *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	requests    int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot

	feed *feed
}

// New returns a service with defaults filled in. bets may be nil, in which
// case the betting endpoints report an empty log.
func New(cfg Config, bets BetLister, log *logrus.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8631"
	}
	if log == nil {
		log = logrus.New()
	}

	return &Service{
		cfg:       cfg,
		bets:      bets,
		log:       log,
		startedAt: time.Now(),
		feed:      newFeed(cfg.EventsBuffer),
	}
}

const apiPrefix = "/v1"

// Handler returns the API router.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	// Routes hang off the root router so a method mismatch reaches
	// MethodNotAllowedHandler; a PathPrefix subrouter reports it as 404.
	routes := []struct {
		method, path string
		handler      http.HandlerFunc
	}{
		{http.MethodGet, "/health", s.handleHealth},
		{http.MethodGet, "/status", s.handleStatus},
		{http.MethodPost, "/scorecard", s.handleScoreCard},
		{http.MethodPost, "/projection", s.handleProjection},
		{http.MethodPost, "/breakeven", s.handleBreakEven},
		{http.MethodPost, "/quadrant", s.handleQuadrant},
		{http.MethodPost, "/quadrant/whatif", s.handleWhatIf},
		{http.MethodGet, "/bets", s.handleBets},
		{http.MethodGet, "/bets/stats", s.handleBetStats},
		{http.MethodGet, "/events", s.handleEvents},
		{http.MethodGet, "/stream", s.handleStream},
	}
	for _, rt := range routes {
		r.HandleFunc(apiPrefix+rt.path, rt.handler).Methods(rt.method)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})
	return r
}

// Run serves HTTP and polls the betting log until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("server listening")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		entry := s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request")
		}
	})
}
