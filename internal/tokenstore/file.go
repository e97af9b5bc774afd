package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// tokenDirName is the subdirectory of the data directory holding token files.
const tokenDirName = "tokens"

// FileStore keeps one JSON document per origin under {dataDir}/tokens.
type FileStore struct {
	fs     afero.Fs
	path   string
	origin string
	mu     sync.RWMutex
}

// NewFileStore creates a FileStore for origin rooted at dataDir.
// The token directory is created with mode 0700 if it doesn't exist.
func NewFileStore(fs afero.Fs, dataDir, origin string) (*FileStore, error) {
	dir := filepath.Join(dataDir, tokenDirName)
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.NewStorageError("failed to create token directory", err).WithBackend(BackendFile)
	}
	return &FileStore{
		fs:     fs,
		path:   filepath.Join(dir, originFileName(origin)+".json"),
		origin: origin,
	}, nil
}

// Path returns the token file for this store's origin.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes both tokens atomically.
func (s *FileStore) Save(ctx context.Context, tokens models.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(map[string]string{
		KeyAccess:  tokens.Access,
		KeyRefresh: tokens.Refresh,
	}, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to encode tokens", err).WithBackend(BackendFile)
	}
	if err := atomicWriteFile(s.fs, s.path, data, 0o600); err != nil {
		return errors.NewStorageError("failed to save tokens", err).WithBackend(BackendFile)
	}
	return nil
}

// Read loads the tokens for this origin.
func (s *FileStore) Read(ctx context.Context) (models.Tokens, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Tokens{}, false, nil
		}
		return models.Tokens{}, false, errors.NewStorageError("failed to read tokens", err).WithBackend(BackendFile)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Tokens{}, false, errors.NewStorageError("failed to read tokens", errors.Join(errors.ErrTokensCorrupted, err)).WithBackend(BackendFile)
	}

	tokens := models.Tokens{Access: raw[KeyAccess], Refresh: raw[KeyRefresh]}
	return tokens, !tokens.IsZero(), nil
}

// Clear deletes the token file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError("failed to clear tokens", err).WithBackend(BackendFile)
	}
	return nil
}

// Close is a no-op for FileStore.
func (s *FileStore) Close() error {
	return nil
}

// atomicWriteFile writes data to a temporary file in the same directory and
// renames it over path, so readers never see a partially-written file.
func atomicWriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
