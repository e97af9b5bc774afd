package tokenstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/fintrack/internal/config"
	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/models"
)

// Fixed keys under which the two tokens are stored.
const (
	KeyAccess  = "access_token"
	KeyRefresh = "refresh_token"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store holds the token pair for a single API origin.
type Store interface {
	// Save replaces both tokens.
	Save(ctx context.Context, tokens models.Tokens) error
	// Read returns the stored tokens. ok is false when no access token is held.
	Read(ctx context.Context) (tokens models.Tokens, ok bool, err error)
	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Close releases any resources held by the backend.
	Close() error
}

// Open returns the Store configured by cfg for the origin of cfg.API.BaseURL.
func Open(cfg *config.Config) (Store, error) {
	origin := cfg.API.Origin()
	if origin == "" {
		return nil, fmt.Errorf("cannot derive origin from api.base_url %q", cfg.API.BaseURL)
	}

	switch cfg.Auth.TokenStore {
	case BackendFile, "":
		return NewFileStore(afero.NewOsFs(), cfg.Storage.ResolveDataDir(), origin)
	case BackendSQLite:
		return NewSQLiteStore(SQLitePath(cfg.Storage.ResolveDataDir()), origin)
	case BackendMemory:
		return NewMemoryStore(origin), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownBackend, "token store %q", cfg.Auth.TokenStore)
	}
}

// originFileName maps an origin to a filesystem-safe name,
// e.g. "http://localhost:8000" becomes "http_localhost_8000".
func originFileName(origin string) string {
	replacer := strings.NewReplacer("://", "_", ":", "_", "/", "_", "\\", "_", "[", "", "]", "")
	return replacer.Replace(strings.ToLower(origin))
}
