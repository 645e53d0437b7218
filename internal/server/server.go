// Package server wires the router, middleware, and handlers together and
// owns the HTTP server lifecycle.
//
// This is the composition root: main.go hands over a Config, and New builds
// the whole dependency chain in one place —
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler layer
// knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Pvayush/TexasInterns/internal/auth"
	"github.com/Pvayush/TexasInterns/internal/handler"
	"github.com/Pvayush/TexasInterns/internal/middleware"
	sqliteRepo "github.com/Pvayush/TexasInterns/internal/repository/sqlite"
	"github.com/Pvayush/TexasInterns/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port          int
	DBPath        string
	JWTSecret     string
	TokenLifetime time.Duration // session token expiry; zero means the default (30 days)
}

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	GET    /health                → liveness probe
//	POST   /api/v1/auth/register  → create account        (public)
//	POST   /api/v1/auth/login     → authenticate          (public)
//	GET    /api/v1/auth/me        → current user          (auth)
//	POST   /api/v1/jobs           → create job            (auth)
//	GET    /api/v1/jobs           → list jobs w/ filters  (auth)
//	GET    /api/v1/jobs/stats     → rollups               (auth)
//	GET    /api/v1/jobs/{id}      → single job            (auth)
//	PATCH  /api/v1/jobs/{id}      → partial update        (auth)
//	DELETE /api/v1/jobs/{id}      → delete                (auth)
func (s *Server) setupRoutes() error {
	// Global middleware, in order: request ID for tracing, real client IP
	// behind proxies, panic recovery, then our request logger.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenLifetime)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	jobService := service.NewJobService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	jobHandler := handler.NewJobHandler(jobService, s.logger)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Everything below requires a valid bearer token. The guard also
		// confirms the account still exists, so a token for a deleted
		// account never reaches a handler.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, s.db))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Post("/jobs", jobHandler.HandleCreate)
			r.Get("/jobs", jobHandler.HandleList)
			r.Get("/jobs/stats", jobHandler.HandleStats)
			r.Get("/jobs/{id}", jobHandler.HandleGetByID)
			r.Patch("/jobs/{id}", jobHandler.HandleUpdate)
			r.Delete("/jobs/{id}", jobHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for httptest in handler-level
// tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server and blocks until shutdown.
//
// Graceful shutdown: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the database (flushes the WAL and
// releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
