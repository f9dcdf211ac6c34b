package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite journal of scan sessions and staged deletions.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
-- Scan sessions

CREATE TABLE IF NOT EXISTS scans (
  id                TEXT PRIMARY KEY,
  project_root      TEXT NOT NULL,
  manifest_path     TEXT NOT NULL,
  extensions        TEXT,
  reference_formats TEXT,
  exclude_prefixes  TEXT,
  match_mode        TEXT,
  started_at        TIMESTAMP NOT NULL,
  finished_at       TIMESTAMP,
  candidate_count   INTEGER DEFAULT 0,
  file_count        INTEGER DEFAULT 0,
  unused_count      INTEGER DEFAULT 0,
  error             TEXT
);

CREATE TABLE IF NOT EXISTS unused_keys (
  id              INTEGER PRIMARY KEY,
  scan_id         TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
  key             TEXT NOT NULL,
  value           TEXT
);

-- Deletion journal. Stages are written as pending before the first store
-- is touched and flipped as each one completes.

CREATE TABLE IF NOT EXISTS deletions (
  id              TEXT PRIMARY KEY,
  scan_id         TEXT,
  project_root    TEXT NOT NULL,
  manifest_path   TEXT NOT NULL,
  started_at      TIMESTAMP NOT NULL,
  finished_at     TIMESTAMP,
  error           TEXT
);

CREATE TABLE IF NOT EXISTS deletion_keys (
  id              INTEGER PRIMARY KEY,
  deletion_id     TEXT NOT NULL REFERENCES deletions(id) ON DELETE CASCADE,
  key             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deletion_stages (
  id              INTEGER PRIMARY KEY,
  deletion_id     TEXT NOT NULL REFERENCES deletions(id) ON DELETE CASCADE,
  ordinal         INTEGER NOT NULL,
  stage           TEXT NOT NULL,
  status          TEXT NOT NULL,
  detail          TEXT,
  updated_at      TIMESTAMP NOT NULL,
  UNIQUE (deletion_id, stage)
);

-- Indexes

CREATE INDEX IF NOT EXISTS idx_scans_root ON scans(project_root);
CREATE INDEX IF NOT EXISTS idx_unused_keys_scan ON unused_keys(scan_id);
CREATE INDEX IF NOT EXISTS idx_deletions_root ON deletions(project_root);
CREATE INDEX IF NOT EXISTS idx_deletion_keys_deletion ON deletion_keys(deletion_id);
CREATE INDEX IF NOT EXISTS idx_deletion_stages_deletion ON deletion_stages(deletion_id);
`
