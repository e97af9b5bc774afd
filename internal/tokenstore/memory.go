package tokenstore

import (
	"context"
	"sync"

	"github.com/Iron-Ham/fintrack/internal/models"
)

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	origin string
	tokens models.Tokens
	saves  int
	clears int
	mu     sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore for origin.
func NewMemoryStore(origin string) *MemoryStore {
	return &MemoryStore{origin: origin}
}

// Save replaces both tokens.
func (s *MemoryStore) Save(_ context.Context, tokens models.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = tokens
	s.saves++
	return nil
}

// Read returns the held tokens.
func (s *MemoryStore) Read(_ context.Context) (models.Tokens, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens, !s.tokens.IsZero(), nil
}

// Clear forgets both tokens.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = models.Tokens{}
	s.clears++
	return nil
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}

// Counts reports how many times Save and Clear were called.
func (s *MemoryStore) Counts() (saves, clears int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, s.clears
}
