// Package main is the entry point for the EmoAI backend.
//
// The main package is kept minimal — its job is to:
// 1. Read configuration (env vars, optional .env file)
// 2. Create shared dependencies (the logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation makes the app testable and its
// components reusable.
package main

import (
	"log/slog"
	"os"

	"github.com/emoai/emoai-server/internal/config"
	"github.com/emoai/emoai-server/internal/server"
)

func main() {
	// slog.New creates a structured logger; the text handler outputs
	// human-readable lines to the terminal. In production you'd raise the
	// level to Info or Warn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := config.Load()

	// The default signing key is fine for a laptop demo and nothing else.
	// Anyone who knows it can forge a token for any user.
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set — using the insecure demo default; set JWT_SECRET=$(openssl rand -hex 32) for any real deployment")
	}
	if cfg.DemoMode {
		logger.Warn("DEMO_MODE is on — one-time codes are echoed in HTTP responses; never enable this outside a demo")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
