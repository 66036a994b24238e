package identity

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/errs"
	"keyward/internal/native"
)

// Service manages identity key creation and access using a backing
// store and the native crypto boundary.
type Service struct {
	store    domain.IdentityStore
	boundary native.Boundary
	cache    *native.KeyCache
	log      *logrus.Logger

	mu       sync.Mutex
	identity domain.IdentityKeyPair
	regID    domain.RegistrationID
}

// New returns an identity service. cache may be nil when no dispatch
// path needs warming (tests).
func New(store domain.IdentityStore, boundary native.Boundary, cache *native.KeyCache, log *logrus.Logger) *Service {
	return &Service{store: store, boundary: boundary, cache: cache, log: log}
}

// GetOrCreate returns the identity key pair. The first call loads from
// the store or generates a fresh pair; later calls hit the in-memory
// cache. When persisting a fresh pair fails, the pair is still returned
// together with a persistence error: it remains usable this process
// lifetime, but a restart would mint a new identity, which the caller
// must not lose silently.
func (s *Service) GetOrCreate(ctx context.Context) (domain.IdentityKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identity.IsZero() {
		return s.identity, nil
	}

	pair, ok, err := s.store.LoadIdentity()
	if err != nil {
		return domain.IdentityKeyPair{}, errs.Persistence("load identity", err)
	}
	if ok {
		s.warmIdentity(pair)
		return pair, nil
	}

	pair, err = s.boundary.GenerateIdentityKeyPair()
	if err != nil {
		return domain.IdentityKeyPair{}, err
	}
	s.warmIdentity(pair)

	if err := s.store.SaveIdentity(pair); err != nil {
		s.log.WithError(err).Warn("identity not persisted; a restart will issue a new identity")
		return pair, errs.Persistence("persist identity", err)
	}
	return pair, nil
}

// RegistrationID returns the stable per-install registration id,
// generating and persisting it once, like the identity key.
func (s *Service) RegistrationID(ctx context.Context) (domain.RegistrationID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.regID != 0 {
		return s.regID, nil
	}

	id, ok, err := s.store.LoadRegistrationID()
	if err != nil {
		return 0, errs.Persistence("load registration id", err)
	}
	if ok {
		s.warmRegistrationID(id)
		return id, nil
	}

	id, err = s.boundary.GenerateRegistrationID()
	if err != nil {
		return 0, err
	}
	s.warmRegistrationID(id)

	if err := s.store.SaveRegistrationID(id); err != nil {
		s.log.WithError(err).Warn("registration id not persisted")
		return id, errs.Persistence("persist registration id", err)
	}
	return id, nil
}

// FingerprintIdentity returns a short fingerprint of the identity's
// public DH key.
func (s *Service) FingerprintIdentity(ctx context.Context) (domain.Fingerprint, error) {
	pair, err := s.GetOrCreate(ctx)
	if err != nil && pair.IsZero() {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(pair.Public)), nil
}

func (s *Service) warmIdentity(pair domain.IdentityKeyPair) {
	s.identity = pair
	if s.cache != nil {
		s.cache.SetIdentity(pair)
	}
}

func (s *Service) warmRegistrationID(id domain.RegistrationID) {
	s.regID = id
	if s.cache != nil {
		s.cache.SetRegistrationID(id)
	}
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
