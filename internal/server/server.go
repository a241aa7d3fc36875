// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	config → sqlite.DB → services (auth, checkin, chat, profile) → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories), and nothing below this package knows the route table.
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
	"github.com/go-chi/cors"

	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/config"
	"github.com/emoai/emoai-server/internal/handler"
	"github.com/emoai/emoai-server/internal/middleware"
	sqliteRepo "github.com/emoai/emoai-server/internal/repository/sqlite"
	"github.com/emoai/emoai-server/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection: when it shuts down, the
// connection must be closed so a file-backed store flushes cleanly. For the
// default in-memory store closing simply discards everything, which is the
// documented contract.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService
}

// New creates a Server from the given config, wiring the full dependency
// graph. IMPORT ALIAS: repository/sqlite is imported as `sqliteRepo` to
// avoid confusion with the sqlite driver package.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                           → plain "backend running" banner
//	GET  /health                     → liveness + uptime (JSON)
//	POST /auth/register              → create account
//	POST /auth/login                 → password login (may return 2FA challenge)
//	POST /auth/verify-2fa            → complete 2FA challenge
//	POST /auth/request-password-reset→ start recovery
//	POST /auth/reset-password        → finish recovery
//	GET  /me                         → profile + stats        [token]
//	POST /checkins                   → create mood check-in   [token]
//	GET  /checkins                   → list own check-ins     [token]
//	POST /chat                       → scripted chatbot reply [token]
//
// MIDDLEWARE ORDER MATTERS — ours is:
// RequestID → RealIP → Recoverer → CORS → request logger, then RequireAuth
// only on the gated group, so the 401 check runs before any business logic.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// CORS: the browser front end is served from a different origin. The
	// allowed origin comes from config; "*" is the local-demo default.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(middleware.Logger(s.logger))

	// === Services ===
	// The single sqlite.DB implements all three repository interfaces.
	passwords := auth.NewPasswordService(s.config.BcryptCost)
	authService := service.NewAuthService(s.db, s.tokens, passwords, s.config.DemoMode, s.logger)
	checkinService := service.NewCheckinService(s.db, s.logger)
	chatService := service.NewChatService(s.db, s.logger)
	profileService := service.NewProfileService(s.db, s.db, s.db, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, s.logger)
	checkinHandler := handler.NewCheckinHandler(checkinService, s.logger)
	chatHandler := handler.NewChatHandler(chatService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	healthHandler := handler.NewHealthHandler()

	// === Public routes ===
	s.router.Get("/", healthHandler.HandleRoot)
	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/verify-2fa", authHandler.HandleVerifyTwoFactor)
		r.Post("/request-password-reset", authHandler.HandleRequestPasswordReset)
		r.Post("/reset-password", authHandler.HandleResetPassword)
	})

	// === Token-gated routes ===
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.tokens))
		r.Get("/me", profileHandler.HandleMe)
		r.Post("/checkins", checkinHandler.HandleCreate)
		r.Get("/checkins", checkinHandler.HandleList)
		r.Post("/chat", chatHandler.HandleChat)
	})
}

// Handler exposes the router, mainly so tests can drive the full middleware
// and route stack with httptest without opening a real port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start calls it
// automatically; tests that only use Handler() should defer it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("demoMode", s.config.DemoMode),
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
