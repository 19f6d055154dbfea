// Package store is the SQLite persistence layer behind the index and query
// subcommands: one table of indexed files, one table of extracted facts.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for persisted fact runs.
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

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the schema. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id            INTEGER PRIMARY KEY,
  path          TEXT NOT NULL UNIQUE,
  language      TEXT NOT NULL,
  fact_count    INTEGER NOT NULL DEFAULT 0,
  last_indexed  TIMESTAMP
);

-- fact_id is deliberately not unique: the same logical fact can occur more
-- than once (e.g. a module importing the same name twice), and the id is a
-- content address, not a row identity.
CREATE TABLE IF NOT EXISTS facts (
  id            INTEGER PRIMARY KEY,
  file_id       INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  fact_id       TEXT NOT NULL,
  kind          TEXT NOT NULL DEFAULT '',
  lang          TEXT,
  file          TEXT NOT NULL,
  line_start    INTEGER NOT NULL,
  line_end      INTEGER NOT NULL,
  symbol        TEXT,
  signature     TEXT,
  complexity    INTEGER,
  module        TEXT,
  imports       TEXT,
  decorator     TEXT,
  callee        TEXT,
  caller_module TEXT,
  annotation    TEXT,
  doc           TEXT
);

CREATE INDEX IF NOT EXISTS idx_facts_fact_id ON facts(fact_id);
CREATE INDEX IF NOT EXISTS idx_facts_kind    ON facts(kind);
CREATE INDEX IF NOT EXISTS idx_facts_lang    ON facts(lang);
CREATE INDEX IF NOT EXISTS idx_facts_file    ON facts(file);
`
