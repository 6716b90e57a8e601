// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure-Go translation of SQLite, so no
// CGo and no C toolchain. The database is a single file (or ":memory:" for
// tests). WAL mode lets reads proceed concurrently with a write, which
// matters for a web server; foreign keys are enabled because SQLite ships
// with them off.
//
// The one-pending-request-per-mentee invariant lives here as a partial
// unique index rather than in application code: a check-then-insert in Go
// would race between two concurrent creates, while the index makes the
// second INSERT fail atomically inside SQLite no matter how the calls
// interleave.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The repository implementations hang
// off it as Users and MatchRequests, sharing the one pool.
type DB struct {
	conn *sql.DB

	Users         *UserRepo
	MatchRequests *MatchRequestRepo
}

// New opens the database at dbPath (":memory:" for an in-memory instance),
// verifies the connection, applies pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to ":memory:" gets its OWN private database, so the
	// pool must be pinned to a single connection or later queries would
	// see an empty schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open only creates the pool; Ping forces a real connection so a
	// bad path surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.Users = &UserRepo{db: db}
	db.MatchRequests = &MatchRequestRepo{db: db}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this right after
// New so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('mentor', 'mentee')),
			bio           TEXT NOT NULL DEFAULT '',
			skills        TEXT NOT NULL DEFAULT '',
			profile_image BLOB,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// The partial unique index is the storage half of the ledger's core
	// invariant: only one row per mentee may be 'pending' at any instant.
	// Terminal rows fall outside the index, so a mentee can create a new
	// request the moment the previous one resolves.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS match_requests (
			id         TEXT PRIMARY KEY,
			mentor_id  TEXT NOT NULL REFERENCES users(id),
			mentee_id  TEXT NOT NULL REFERENCES users(id),
			message    TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending'
			           CHECK (status IN ('pending', 'accepted', 'rejected', 'cancelled')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_match_requests_one_pending
			ON match_requests(mentee_id) WHERE status = 'pending';
		CREATE INDEX IF NOT EXISTS idx_match_requests_mentor ON match_requests(mentor_id);
		CREATE INDEX IF NOT EXISTS idx_match_requests_mentee ON match_requests(mentee_id);
	`)
	if err != nil {
		return fmt.Errorf("creating match_requests table: %w", err)
	}

	return nil
}
