// Package store keeps the last known remote list on disk so the palette can
// offer remote names before the control API answers, or when it is down.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// walCheckpointInterval bounds WAL growth while the palette keeps the
// database open.
const walCheckpointInterval = 5 * time.Minute

// Snapshot is the persisted view of the configured remotes.
type Snapshot struct {
	Names   []string
	Types   map[string]string
	SavedAt time.Time
}

// Store is a SQLite-backed remote snapshot.
type Store struct {
	db        *sql.DB
	logger    *slog.Logger
	stopCh    chan struct{}
	stoppedCh chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open opens or creates the database at path, creating parent directories
// as needed, and brings the schema up to date.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite takes pragmas as _pragma=name(value)
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:        db,
		logger:    logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	go s.walCheckpointLoop()
	return s, nil
}

// Close stops background work and closes the database. Safe to call more
// than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.stoppedCh
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// SaveRemotes replaces the stored snapshot.
func (s *Store) SaveRemotes(ctx context.Context, names []string, types map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM remote`); err != nil {
		return fmt.Errorf("clear remotes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO remote (name, type, seen_at_unix_ms) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name, types[name], now); err != nil {
			return fmt.Errorf("insert remote %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadRemotes returns the stored snapshot ordered by name. An empty store
// yields an empty snapshot with a zero SavedAt.
func (s *Store) LoadRemotes(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type, seen_at_unix_ms FROM remote ORDER BY name`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query remotes: %w", err)
	}
	defer rows.Close()

	snap := Snapshot{Types: make(map[string]string)}
	var newest int64
	for rows.Next() {
		var name, typ string
		var seen int64
		if err := rows.Scan(&name, &typ, &seen); err != nil {
			return Snapshot{}, fmt.Errorf("scan remote: %w", err)
		}
		snap.Names = append(snap.Names, name)
		if typ != "" {
			snap.Types[name] = typ
		}
		if seen > newest {
			newest = seen
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate remotes: %w", err)
	}
	if newest > 0 {
		snap.SavedAt = time.UnixMilli(newest)
	}
	return snap, nil
}

func (s *Store) walCheckpointLoop() {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(walCheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				s.logger.Warn("WAL checkpoint failed", "error", err)
			}
		}
	}
}

func (s *Store) migrate(ctx context.Context) error {
	current := 0
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	if err := row.Scan(&current); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), isTableNotFoundError(err):
			current = 0
		default:
			return fmt.Errorf("failed to read schema version: %w", err)
		}
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms)
			VALUES (?, ?)
		`, m.version, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

func isTableNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix_ms INTEGER NOT NULL
);

-- Last known configured remotes
CREATE TABLE IF NOT EXISTS remote (
  name TEXT PRIMARY KEY,
  type TEXT NOT NULL DEFAULT '',
  seen_at_unix_ms INTEGER NOT NULL
);
`
