package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a SQLite database. Preferred over the file
// store when several projects share one memory database, since writes touch
// only the affected key.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database at path, creating it and the schema if
// needed.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS memories (
			scope      TEXT NOT NULL,
			module     TEXT NOT NULL,
			content    TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (scope, module)
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Load returns the record for (scope, module), or "" when absent.
func (s *SQLiteStore) Load(ctx context.Context, scope, module string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM memories WHERE scope = ? AND module = ?`,
		scope, module,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load memory %s/%s: %w", scope, module, err)
	}
	return content, nil
}

// Save upserts the record for (scope, module).
func (s *SQLiteStore) Save(ctx context.Context, scope, module, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (scope, module, content, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (scope, module) DO UPDATE SET
		   content = excluded.content,
		   updated_at = excluded.updated_at`,
		scope, module, content,
	)
	if err != nil {
		return fmt.Errorf("save memory %s/%s: %w", scope, module, err)
	}
	s.logger.Debug("saved memory record",
		zap.String("scope", scope),
		zap.String("module", module),
		zap.Int("bytes", len(content)),
	)
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
