package store

import (
	"path/filepath"
	"sync"

	"keyward/internal/domain"
)

const tokenFile = "invite_tokens.json"

// TokenFileStore caches invitation tokens by target user, so a later
// bundle fetch can prove eligibility to the directory.
type TokenFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewTokenFileStore returns a TokenFileStore rooted at dir.
func NewTokenFileStore(dir string) *TokenFileStore {
	return &TokenFileStore{dir: dir}
}

// PutToken remembers the token for target, replacing any earlier one.
func (s *TokenFileStore) PutToken(target domain.UserID, token domain.InviteToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.UserID]domain.InviteToken{}
	path := filepath.Join(s.dir, tokenFile)
	if err := readJSON(path, &m); err != nil {
		return err
	}
	m[target] = token
	return writeJSON(path, m, 0o600)
}

// Token returns the cached token for target, if any.
func (s *TokenFileStore) Token(target domain.UserID) (domain.InviteToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[domain.UserID]domain.InviteToken{}
	if err := readJSON(filepath.Join(s.dir, tokenFile), &m); err != nil {
		return "", false, err
	}
	tok, ok := m[target]
	return tok, ok, nil
}

// Compile-time assertion that TokenFileStore implements domain.TokenCache.
var _ domain.TokenCache = (*TokenFileStore)(nil)
