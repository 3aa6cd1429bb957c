package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore persists records as a single JSON document on disk. It is the
// default store: embedded, no external dependencies. The whole document is
// rewritten on every save, which is fine at one write per module per run.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewFileStore opens (or lazily creates) the store at path. The parent
// directory is created with 0700 and the file written with 0600, matching
// the permissions expected of operator-local state.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Load returns the record for (scope, module), or "" when absent.
func (s *FileStore) Load(ctx context.Context, scope, module string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return "", err
	}
	return records[key(scope, module)], nil
}

// Save overwrites the record for (scope, module).
func (s *FileStore) Save(ctx context.Context, scope, module, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records[key(scope, module)] = content

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory store: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write memory store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace memory store: %w", err)
	}

	s.logger.Debug("saved memory record",
		zap.String("scope", scope),
		zap.String("module", module),
		zap.Int("bytes", len(content)),
	)
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory store: %w", err)
	}
	records := map[string]string{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse memory store %s: %w", s.path, err)
	}
	return records, nil
}

func key(scope, module string) string {
	return scope + "/" + module
}
