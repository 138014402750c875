// Package httpapi exposes the public REST surface of the modcat server:
// routing, request authentication, rate limiting, and the wire DTOs.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mlodewijk/modcat/internal/logging"
	"github.com/mlodewijk/modcat/internal/server/config"
	"github.com/mlodewijk/modcat/internal/server/services"
)

// Server owns the HTTP listener and routes requests to the services.
type Server struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	users   *services.UserService
	limiter *rateLimiter
}

// NewServer wires the REST surface to the given services.
func NewServer(cfg *config.Config, l logging.Logger, as *services.AuthService, us *services.UserService) *Server {
	return &Server{
		address: cfg.EndpointAddr,
		logger:  l.With("module", "http_server"),
		auth:    as,
		users:   us,
		limiter: newRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	}
}

// routes builds the router. Credential endpoints sit behind the rate limiter;
// everything under /api/users requires a bearer token.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logging)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(s.rateLimit)
	auth.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(s.authenticate)
	users.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	users.HandleFunc("/email", s.handleUpdateEmail).Methods(http.MethodPut)
	users.HandleFunc("/favorites", s.handleAddFavorite).Methods(http.MethodPost)
	users.HandleFunc("/favorites/{moduleId}", s.handleRemoveFavorite).Methods(http.MethodDelete)

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
