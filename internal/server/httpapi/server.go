package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/rosvit/journal-backend/internal/logging"
	"github.com/rosvit/journal-backend/internal/server/auth"
	"github.com/rosvit/journal-backend/internal/server/metrics"
)

// Pinger is the liveness probe dependency, satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const shutdownTimeout = 30 * time.Second

// Server is the HTTP front of the journal backend.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer assembles the router. Credential endpoints sit behind a per-IP
// rate limit; everything under the journal routes requires a bearer token.
func NewServer(
	addr string,
	logger logging.Logger,
	registry *prometheus.Registry,
	resolver *auth.Resolver,
	userService UserService,
	journalService JournalService,
	pinger Pinger,
	loginRate rate.Limit,
	loginBurst int,
) *Server {
	collector := metrics.NewCollector(registry)
	userHandler := NewUserHandler(userService, logger)
	journalHandler := NewJournalHandler(journalService, logger)

	credentialLimiter := newIPLimiter(loginRate, loginBurst, 10*time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(instrument(logger, collector))

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(credentialLimiter, logger))
		r.Post("/user", userHandler.Register)
		r.Post("/user/login", userHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate(resolver, logger))

		r.Put("/user/{userID}", userHandler.UpdatePassword)

		r.Route("/event-types", func(r chi.Router) {
			r.Get("/", journalHandler.ListEventTypes)
			r.Post("/", journalHandler.CreateEventType)
			r.Get("/{id}", journalHandler.GetEventType)
			r.Put("/{id}", journalHandler.UpdateEventType)
			r.Delete("/{id}", journalHandler.DeleteEventType)
		})

		r.Route("/journal-entries", func(r chi.Router) {
			r.Get("/", journalHandler.Search)
			r.Post("/", journalHandler.CreateEntry)
			r.Get("/{id}", journalHandler.GetEntry)
			r.Put("/{id}", journalHandler.UpdateEntry)
			r.Delete("/{id}", journalHandler.DeleteEntry)
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.PingContext(r.Context()); err != nil {
			logger.Error(r.Context(), "liveness probe failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: r},
		logger:     logger,
	}
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
