// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE FOR AN "IN-MEMORY" STORE?
// The demo contract is a process-lifetime store with no durability promise.
// We get exactly that from SQLite's ":memory:" mode (the default DSN), while
// also getting what a bare Go slice never gives us for free:
//   - a real UNIQUE index on users.email (duplicate registration can't race)
//   - monotonically assigned integer ids
//   - transactional, serialized writes under concurrent HTTP requests
// Point DB_PATH at a file and the same code persists across restarts.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import is a "side-effect only" import. The sqlite
	// package's init() registers itself with database/sql as a driver named
	// "sqlite"; after this import, sql.Open("sqlite", ...) knows how to
	// talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One DB value implements UserRepository, CheckinRepository, and
// ChatLogRepository; the server wires the same instance into every service.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - ":memory:"       → in-memory database (demo default, lost on exit)
//   - "data/emoai.db"  → file-based database (persistent)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SINGLE CONNECTION:
	// With ":memory:", every pooled connection would get its OWN empty
	// database — one connection means one shared store. Note what this does
	// NOT give us: it serializes individual statements, not multi-statement
	// sequences, so anything that must be check-and-write in one step (code
	// consumption, email uniqueness) is a single conditional statement in the
	// repository rather than a read followed by a write.
	conn.SetMaxOpenConns(1)

	// Ping verifies the connection actually works. Without this, a bad path
	// or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (for backwards
	// compatibility). Check-ins reference users, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Wherever you call New(),
// immediately defer Close() so the connection is cleaned up even on panic.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every start (and on every pre-existing file DB).
//
// INTEGER PRIMARY KEY AUTOINCREMENT gives the sequential, monotonic numeric
// ids the API exposes. AUTOINCREMENT (vs plain INTEGER PRIMARY KEY) also
// guarantees ids are never reused even if rows were ever deleted.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			name                    TEXT NOT NULL,
			email                   TEXT NOT NULL UNIQUE,
			password_hash           TEXT NOT NULL,
			institution             TEXT NOT NULL DEFAULT '',
			avatar_url              TEXT,
			two_factor_enabled      INTEGER NOT NULL DEFAULT 0,
			two_factor_code         TEXT,
			two_factor_code_expires DATETIME,
			reset_code              TEXT,
			reset_code_expires      DATETIME,
			created_at              DATETIME NOT NULL,
			updated_at              DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS checkins (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			mood       TEXT NOT NULL,
			note       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_checkins_user_id ON checkins(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating checkins table: %w", err)
	}

	// One row per chatbot interaction — the source for the "sessions in the
	// last 7 days" stat.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS chat_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_log_user_created ON chat_log(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating chat_log table: %w", err)
	}

	return nil
}
