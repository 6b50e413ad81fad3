// Package local implements every repository contract against a local
// SQLite database. It is the simulated variant: same observable
// behavior as the network-backed repositories, no server required.
// The composition root picks local or remote; callers never know.
package local

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mchen04/penguin-mail/internal/repository"
)

// Store owns the SQLite handle shared by all local repositories.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode,
// and applies pending schema migrations. Use ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
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

// Repositories returns the full local repository set over this store.
func (s *Store) Repositories() repository.Set {
	return repository.Set{
		Emails:        &Emails{db: s.db},
		Folders:       &Folders{db: s.db},
		Labels:        &Labels{db: s.db},
		Accounts:      &Accounts{db: s.db},
		Contacts:      &Contacts{db: s.db},
		ContactGroups: &ContactGroups{db: s.db},
		Settings:      &Settings{db: s.db},
	}
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// Stored timestamps are RFC 3339 text with a fixed-width fraction so
// lexicographic ORDER BY matches chronological order. Reads always
// reconstruct time values from the text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func readTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
