// Package v1 wires the HTTP surface of the banking service.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/bank/internal/auth"
	"github.com/tinoosan/bank/internal/service/account"
	"github.com/tinoosan/bank/internal/service/transaction"
)

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	accounts account.Service
	tx       transaction.Service
	auth     *auth.Service
	ready    ReadyChecker
	currency string
	secret   []byte
	issuer   string
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware. When secret is
// empty, login is disabled and account routes are left unauthenticated.
func New(accounts account.Service, tx transaction.Service, authSvc *auth.Service, ready ReadyChecker, currency string, secret []byte, issuer string, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		accounts: accounts,
		tx:       tx,
		auth:     authSvc,
		ready:    ready,
		currency: currency,
		secret:   secret,
		issuer:   issuer,
		log:      logger,
		rt:       r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	s.rt.With(s.validateCreateAccount()).Post("/v1/accounts", s.postAccount)
	s.rt.With(s.validateLogin()).Post("/v1/login", s.postLogin)
	// Account-scoped routes require a bearer token when a secret is configured.
	s.rt.Group(func(r chi.Router) {
		if len(s.secret) > 0 {
			r.Use(s.requireAuth())
		}
		r.Get("/v1/accounts/{accountNumber}", s.getAccount)
		r.With(s.validateAmount()).Post("/v1/accounts/{accountNumber}/deposit", s.deposit)
		r.With(s.validateAmount()).Post("/v1/accounts/{accountNumber}/withdraw", s.withdraw)
	})
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
