// Package config loads runtime configuration from the environment.
//
// CONFIGURATION STRATEGY:
// Everything is an environment variable with a local-demo default. A .env
// file in the working directory is loaded first (via godotenv) so local runs
// don't need to export anything; real deployments set the variables directly
// and ship no .env file.
//
// The defaults are insecure on purpose — they exist so `go run ./cmd/server`
// works out of the box. DefaultJWTSecret in particular must be replaced in
// any deployment that matters; main logs a loud warning when it is in use.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the demo fallback signing key. Anyone who knows it can
// forge tokens, so it is only acceptable for a local demo.
const DefaultJWTSecret = "super-secret-dev"

// Config holds every tunable the server reads at startup.
type Config struct {
	Port       int    // PORT — HTTP listen port
	JWTSecret  string // JWT_SECRET — HS256 signing key
	CORSOrigin string // CORS_ORIGIN — allowed cross-origin source, "*" for demo
	DBPath     string // DB_PATH — SQLite DSN; ":memory:" keeps the demo store process-local
	DemoMode   bool   // DEMO_MODE — echo one-time codes in responses (demo only!)
	BcryptCost int    // BCRYPT_COST — password hashing work factor
}

// Load reads the configuration, applying defaults for anything unset.
//
// godotenv.Load is best-effort: a missing .env file is not an error, it just
// means everything comes from the real environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       atoi("PORT", 4000),
		JWTSecret:  getenv("JWT_SECRET", DefaultJWTSecret),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
		DBPath:     getenv("DB_PATH", ":memory:"),
		DemoMode:   getbool("DEMO_MODE", false),
		BcryptCost: atoi("BCRYPT_COST", 12),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
