package bundle

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/errs"
)

// DefaultCacheTTL bounds how long an out-of-band bundle stays usable.
const DefaultCacheTTL = 24 * time.Hour

// Service resolves peers' bundles.
type Service struct {
	cache  domain.BundleCache
	tokens domain.TokenCache
	dir    domain.Directory // nil when offline
	log    *logrus.Logger

	mu       sync.Mutex
	injected map[domain.UserID]domain.PreKeyBundle
}

// New returns a bundle service. dir may be nil for a device with no
// connectivity; resolution then stops at the offline cache.
func New(cache domain.BundleCache, tokens domain.TokenCache, dir domain.Directory, log *logrus.Logger) *Service {
	return &Service{
		cache:    cache,
		tokens:   tokens,
		dir:      dir,
		log:      log,
		injected: map[domain.UserID]domain.PreKeyBundle{},
	}
}

// InjectBundle installs a fixed bundle for peer, bypassing cache and
// directory. Test hook only.
func (s *Service) InjectBundle(peer domain.UserID, bundle domain.PreKeyBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injected[peer] = bundle
}

// Fetch resolves peer's current bundle. Resolution order: injected test
// bundle, unexpired cache entry, directory. A missing bundle surfaces
// as BUNDLE_NOT_FOUND; a directory transport failure propagates as
// DIRECTORY_UNAVAILABLE so the caller can retry or fall back.
func (s *Service) Fetch(ctx context.Context, peer domain.UserID) (domain.PreKeyBundle, error) {
	s.mu.Lock()
	b, ok := s.injected[peer]
	s.mu.Unlock()
	if ok {
		return b, nil
	}

	cached, ok, err := s.cache.Get(peer)
	if err != nil && errs.CodeOf(err) != errs.CodeStaleBundle {
		return domain.PreKeyBundle{}, errs.Persistence("read bundle cache", err)
	}
	if ok {
		if err := verifyBundle(cached); err != nil {
			s.log.WithError(err).WithField("peer", peer).Warn("cached bundle failed verification; evicting")
			_ = s.cache.Invalidate(peer)
		} else {
			return cached, nil
		}
	}

	if s.dir == nil {
		return domain.PreKeyBundle{}, errs.BundleNotFound("no cached bundle and no directory reachable")
	}

	token, _, err := s.tokens.Token(peer)
	if err != nil {
		s.log.WithError(err).WithField("peer", peer).Warn("invite token lookup failed; fetching without token")
	}

	remote, ref, found, err := s.dir.FetchBundle(ctx, peer, domain.PrimaryDeviceID, token)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !found {
		return domain.PreKeyBundle{}, errs.BundleNotFound("directory has no active bundle for peer")
	}
	if err := verifyBundle(remote); err != nil {
		return domain.PreKeyBundle{}, err
	}

	if remote.HasOneTimePreKey() {
		// Best effort. A non-consumed one-time prekey being served twice
		// is a directory-side integrity concern, not a local one.
		if err := s.dir.MarkOneTimePreKeyConsumed(ctx, ref); err != nil {
			s.log.WithError(err).WithField("peer", peer).Warn("could not flag one-time prekey consumed")
		}
	}
	return remote, nil
}

// CacheRemoteBundle stores a bundle delivered out-of-band, e.g. over a
// proximity transport, for later offline bootstrap. A non-positive ttl
// applies DefaultCacheTTL.
func (s *Service) CacheRemoteBundle(peer domain.UserID, bundle domain.PreKeyBundle, ttl time.Duration) error {
	if err := verifyBundle(bundle); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.cache.Put(peer, bundle, ttl); err != nil {
		return errs.Persistence("cache bundle", err)
	}
	s.log.WithFields(logrus.Fields{"peer": peer, "ttl": ttl}).Info("offline bundle cached")
	return nil
}

// CacheInviteToken remembers a token proving eligibility to fetch the
// target's bundle later.
func (s *Service) CacheInviteToken(target domain.UserID, token domain.InviteToken) error {
	if err := s.tokens.PutToken(target, token); err != nil {
		return errs.Persistence("cache invite token", err)
	}
	return nil
}

// verifyBundle checks the prekey signatures against the bundle's
// signing key before the bundle is trusted for key agreement.
func verifyBundle(b domain.PreKeyBundle) error {
	if !crypto.VerifyEd25519(b.SigningKey, b.SignedPreKey, b.SignedPreKeySignature) {
		return errs.New(errs.CodeInvalidBundle, "signed prekey signature invalid")
	}
	if b.HasKyberPreKey() && !crypto.VerifyEd25519(b.SigningKey, b.KyberPreKey, b.KyberPreKeySignature) {
		return errs.New(errs.CodeInvalidBundle, "kyber prekey signature invalid")
	}
	return nil
}

// Compile-time assertion that Service implements domain.BundleService.
var _ domain.BundleService = (*Service)(nil)
