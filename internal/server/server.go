// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	sqlite.DB → services (post/user/auth) → handlers → routes
//
// main.go stays minimal (read config, build logger, start server), and tests
// can build the same server against an in-memory database.
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

	"github.com/sakif/bloglist/internal/auth"
	"github.com/sakif/bloglist/internal/handler"
	"github.com/sakif/bloglist/internal/middleware"
	sqliteRepo "github.com/sakif/bloglist/internal/repository/sqlite"
	"github.com/sakif/bloglist/internal/service"
)

// Config holds server configuration, loaded once at startup and passed in
// explicitly — handlers and services never read the environment themselves.
type Config struct {
	Port   int
	DBPath string // path to the SQLite database file, or ":memory:"
	Secret string // JWT signing secret
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency graph wired:
//
//  1. open the database (sqlite.New runs migrations)
//  2. build the auth utilities (token + password services) from config
//  3. build the service layer on the repository interfaces
//  4. build the handlers and bind the routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, nothing below the handler sees HTTP.
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

// Handler returns the root http.Handler. Exposed for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's database connection. Start() does this itself
// on shutdown; Close exists for callers that never Start (tests).
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and binds every route.
//
// ROUTE TABLE:
//
//	GET    /api/blogs        → list posts (owner inlined)
//	GET    /api/blogs/{id}   → one post
//	POST   /api/blogs        → create post        (bearer token)
//	PUT    /api/blogs/{id}   → update likes only
//	DELETE /api/blogs/{id}   → delete post        (bearer token + ownership)
//	GET    /api/users        → list users (post refs inlined)
//	POST   /api/users        → register
//	POST   /api/login        → issue token
//
// MIDDLEWARE ORDER MATTERS — it runs in the order added:
// RequestID and RealIP first (tracing), Recoverer as the panic backstop,
// request logging, then the token extractor so every handler downstream can
// read the bearer token from the context.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.TokenExtractor)

	tokens, err := auth.NewTokenService(s.config.Secret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	postService := service.NewPostService(s.db, s.db, s.logger)
	userService := service.NewUserService(s.db, passwords, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	postHandler := handler.NewPostHandler(postService, tokens, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/blogs", postHandler.HandleList)
		r.Get("/blogs/{id}", postHandler.HandleGetByID)
		r.Post("/blogs", postHandler.HandleCreate)
		r.Put("/blogs/{id}", postHandler.HandleUpdateLikes)
		r.Delete("/blogs/{id}", postHandler.HandleDelete)

		r.Get("/users", userHandler.HandleList)
		r.Post("/users", userHandler.HandleCreate)

		r.Post("/login", authHandler.HandleLogin)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
