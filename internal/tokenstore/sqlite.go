package tokenstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	// Import sqlite driver
	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// SQLiteFileName is the database file inside the data directory.
const SQLiteFileName = "tokens.db"

// SQLitePath returns the database path for dataDir.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFileName)
}

// SQLiteStore keeps tokens in a tokens(origin, key, value) table.
type SQLiteStore struct {
	conn   *sql.DB
	origin string
	mu     sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path and runs migrations.
// Use ":memory:" for an in-process database.
func NewSQLiteStore(path, origin string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.NewStorageError("failed to create data directory", err).WithBackend(BackendSQLite)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open database", err).WithBackend(BackendSQLite)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, errors.NewStorageError("failed to open database", err).WithBackend(BackendSQLite)
	}

	s := &SQLiteStore{conn: conn, origin: origin}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, errors.NewStorageError("failed to migrate database", err).WithBackend(BackendSQLite)
	}
	if path != ":memory:" {
		_ = os.Chmod(path, 0o600)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tokens (
			origin TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (origin, key)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts both tokens in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tokens models.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to save tokens", err).WithBackend(BackendSQLite)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO tokens (origin, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	for key, value := range map[string]string{KeyAccess: tokens.Access, KeyRefresh: tokens.Refresh} {
		if _, err := tx.ExecContext(ctx, upsert, s.origin, key, value); err != nil {
			return errors.NewStorageError("failed to save tokens", err).WithBackend(BackendSQLite)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to save tokens", err).WithBackend(BackendSQLite)
	}
	return nil
}

// Read loads the tokens for this origin.
func (s *SQLiteStore) Read(ctx context.Context) (models.Tokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.QueryContext(ctx, "SELECT key, value FROM tokens WHERE origin = ?", s.origin)
	if err != nil {
		return models.Tokens{}, false, errors.NewStorageError("failed to read tokens", err).WithBackend(BackendSQLite)
	}
	defer func() { _ = rows.Close() }()

	var tokens models.Tokens
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Tokens{}, false, errors.NewStorageError("failed to read tokens", err).WithBackend(BackendSQLite)
		}
		switch key {
		case KeyAccess:
			tokens.Access = value
		case KeyRefresh:
			tokens.Refresh = value
		}
	}
	if err := rows.Err(); err != nil {
		return models.Tokens{}, false, errors.NewStorageError("failed to read tokens", err).WithBackend(BackendSQLite)
	}

	return tokens, !tokens.IsZero(), nil
}

// Clear deletes both tokens for this origin.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.ExecContext(ctx, "DELETE FROM tokens WHERE origin = ?", s.origin); err != nil {
		return errors.NewStorageError("failed to clear tokens", err).WithBackend(BackendSQLite)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
