// Package http exposes the ledger over a JSON API: account and entry CRUD,
// bulk import/export, computed statistics, and the account selection.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"betledger/internal/cache"
	"betledger/internal/ledger"
	"betledger/internal/log"
	"betledger/internal/middleware/ratelimit"
	"betledger/internal/middleware/security"
	"betledger/internal/middleware/trace"
)

// Options tunes the server's caching and rate limiting.
type Options struct {
	StatsCacheSize int
	StatsCacheTTL  time.Duration
	RateLimit      ratelimit.Config
}

// DefaultOptions returns the defaults used when a field is zero.
func DefaultOptions() Options {
	return Options{
		StatsCacheSize: 64,
		StatsCacheTTL:  30 * time.Second,
		RateLimit:      ratelimit.DefaultConfig(),
	}
}

// Server serves the ledger API.
type Server struct {
	http.Server

	svc *ledger.Service

	// statsCache memoizes stat responses between mutations; any mutation
	// purges it wholesale.
	statsCache   *cache.LRUCache[[]byte]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *ledger.Service, logger *log.Logger, opts Options) *Server {
	if opts.StatsCacheSize <= 0 {
		opts.StatsCacheSize = DefaultOptions().StatsCacheSize
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = DefaultOptions().StatsCacheTTL
	}

	s := &Server{
		svc:          svc,
		statsCache:   cache.NewLRUCache[[]byte](opts.StatsCacheSize, opts.StatsCacheTTL),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(opts.RateLimit),
	}
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntries)
	mux.HandleFunc("PUT /api/entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /api/entries/import", s.handleImport)
	mux.HandleFunc("GET /api/entries/export", s.handleExport)

	mux.HandleFunc("GET /api/stats/{kind}", s.handleStats)

	mux.HandleFunc("GET /api/selection", s.handleGetSelection)
	mux.HandleFunc("PUT /api/selection", s.handleUpdateSelection)

	handler := s.limiter.Middleware(extractClientIP, nil)(mux)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(extractClientIP).Middleware(handler)
	if logger != nil {
		handler = log.Middleware(logger)(handler)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// invalidateStats drops memoized stat responses after any mutation.
func (s *Server) invalidateStats() {
	s.statsCache.Purge()
}

// Shutdown stops background routines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
