package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"keyward/internal/domain"
)

const identityFile = "identity.enc"

// identityState is the sealed on-disk shape holding both the identity
// key pair and the registration id, so they live and die together.
type identityState struct {
	Identity       domain.IdentityKeyPair `json:"identity"`
	RegistrationID domain.RegistrationID  `json:"registration_id"`
}

// IdentityFileStore persists the local identity, encrypted at rest.
type IdentityFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir, passphrase string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, passphrase: passphrase}
}

// SaveIdentity stores the identity key pair, keeping any registration id.
func (s *IdentityFileStore) SaveIdentity(pair domain.IdentityKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.Identity = pair
	return s.save(st)
}

// LoadIdentity returns the stored identity key pair, if any.
func (s *IdentityFileStore) LoadIdentity() (domain.IdentityKeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return domain.IdentityKeyPair{}, false, err
	}
	if st.Identity.IsZero() {
		return domain.IdentityKeyPair{}, false, nil
	}
	return st.Identity, true, nil
}

// SaveRegistrationID stores the registration id, keeping the identity.
func (s *IdentityFileStore) SaveRegistrationID(id domain.RegistrationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.RegistrationID = id
	return s.save(st)
}

// LoadRegistrationID returns the stored registration id, if any.
func (s *IdentityFileStore) LoadRegistrationID() (domain.RegistrationID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return 0, false, err
	}
	if st.RegistrationID == 0 {
		return 0, false, nil
	}
	return st.RegistrationID, true, nil
}

func (s *IdentityFileStore) load() (identityState, error) {
	var st identityState
	raw, err := readSealed(filepath.Join(s.dir, identityFile), s.passphrase)
	if err != nil {
		return st, err
	}
	if raw == nil {
		return st, nil
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, err
	}
	return st, nil
}

func (s *IdentityFileStore) save(st identityState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return writeSealed(filepath.Join(s.dir, identityFile), s.passphrase, raw, 0o600)
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
