package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store implements domain.TaskStore and domain.EventStore on a local SQLite
// database. Useful when running without GCP credentials but with data that
// should survive a restart.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) a SQLite database at dbPath, enables WAL mode,
// and runs any pending schema migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL for better concurrent read behavior.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS tasks (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				title      TEXT NOT NULL,
				list_name  TEXT NOT NULL,
				status     TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				due_date   TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);

			CREATE TABLE IF NOT EXISTS events (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				title      TEXT NOT NULL,
				start_at   TIMESTAMP NOT NULL,
				end_at     TIMESTAMP NOT NULL,
				list_name  TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id);
		`,
	},
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	if _, err := s.db.Exec(
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var currentVersion int
	if err := s.db.Get(
		&currentVersion,
		"SELECT COALESCE(MAX(version), 0) FROM schema_version",
	); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_version (version) VALUES (?)", m.version,
		); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
	}
	return nil
}
