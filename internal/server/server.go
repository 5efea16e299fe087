// Package server is a reference implementation of the remote todo
// collection. It serves the same routes the client consumes, backed by
// SQLite, so the client can be exercised without a public endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/store"
)

const (
	// DefaultPrefix is the collection path.
	DefaultPrefix = "/todos"

	// DefaultMaxRequestSize bounds request bodies (1MB).
	DefaultMaxRequestSize int64 = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server serves the todo collection over HTTP.
type Server struct {
	store          store.Store
	logger         *zap.Logger
	prefix         string
	allowedOrigins []string
	maxBody        int64
}

// Option configures a Server.
type Option func(*Server)

// WithPrefix mounts the collection at prefix instead of /todos.
func WithPrefix(prefix string) Option {
	return func(s *Server) { s.prefix = normalizePrefix(prefix) }
}

// WithAllowedOrigins restricts CORS to the given origins. The default
// allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithMaxRequestSize overrides the request body limit.
func WithMaxRequestSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a Server over st.
func New(st store.Store, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:          st,
		logger:         logger,
		prefix:         DefaultPrefix,
		allowedOrigins: []string{"*"},
		maxBody:        DefaultMaxRequestSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the path the collection is mounted at.
func (s *Server) Prefix() string {
	return s.prefix
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	// gorilla/mux runs middleware in registration order, outermost first.
	r.Use(RequestID)
	r.Use(Logging(s.logger))
	r.Use(Recover(s.logger))
	r.Use(MaxRequestSize(s.maxBody))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	todos := r
	if s.prefix != "/" {
		todos = r.PathPrefix(s.prefix).Subrouter()
	}
	s.registerTodoRoutes(todos)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_starting",
			zap.String("addr", addr),
			zap.String("prefix", s.prefix),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server_exited")
	return nil
}

// OpenStore opens the SQLite database at dbPath and seeds it with seed
// when it holds no todos.
func OpenStore(ctx context.Context, dbPath string, seed []model.Todo, logger *zap.Logger) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	n, err := st.Seed(ctx, seed)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("seeding %s: %w", dbPath, err)
	}
	if n > 0 && logger != nil {
		logger.Info("store_seeded", zap.String("db_path", dbPath), zap.Int("count", n))
	}
	return st, nil
}

func normalizePrefix(prefix string) string {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	return "/" + p
}
