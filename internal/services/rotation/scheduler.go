package rotation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"keyward/internal/domain"
)

// Defaults for the rotation policy.
const (
	DefaultInterval   = 7 * 24 * time.Hour
	DefaultCheckEvery = time.Minute
	DefaultLowWater   = 10
)

// Scheduler drives key rotation for one (user, device).
type Scheduler struct {
	prekeys   domain.PreKeyService
	publisher domain.PublisherService
	log       *logrus.Logger

	user domain.UserID

	// Interval is how often material is rotated regardless of usage.
	Interval time.Duration
	// CheckEvery is how often the pool is inspected between rotations.
	CheckEvery time.Duration
	// LowWater triggers an early rotation when the one-time pool
	// shrinks below it.
	LowWater int
}

// New returns a scheduler with the default policy.
func New(prekeys domain.PreKeyService, publisher domain.PublisherService, log *logrus.Logger, user domain.UserID) *Scheduler {
	return &Scheduler{
		prekeys:    prekeys,
		publisher:  publisher,
		log:        log,
		user:       user,
		Interval:   DefaultInterval,
		CheckEvery: DefaultCheckEvery,
		LowWater:   DefaultLowWater,
	}
}

// Run blocks, rotating on schedule until ctx is cancelled. An initial
// pool check runs immediately so a drained install refreshes without
// waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.checkPool(ctx)

	ticker := time.NewTicker(s.CheckEvery)
	defer ticker.Stop()

	lastRotation := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if now.Sub(lastRotation) >= s.Interval {
				if s.RotateNow(ctx) {
					lastRotation = now
				}
				continue
			}
			if s.checkPool(ctx) {
				lastRotation = now
			}
		}
	}
}

// RotateNow generates fresh material and publishes it, reporting
// whether rotation succeeded. Failures are logged; the scheduler keeps
// running and retries on the next trigger.
func (s *Scheduler) RotateNow(ctx context.Context) bool {
	bundle, err := s.prekeys.GeneratePreKeyBundle(ctx)
	if err != nil {
		s.log.WithError(err).Warn("prekey rotation failed")
		return false
	}
	if err := s.publisher.Publish(ctx, s.user, bundle); err != nil {
		s.log.WithError(err).Warn("rotated bundle not published")
	}
	s.log.WithFields(logrus.Fields{
		"signed_id": bundle.SignedPreKeyID,
		"kyber_id":  bundle.KyberPreKeyID,
	}).Info("prekey material rotated")
	return true
}

// checkPool rotates early when the one-time pool is below LowWater.
func (s *Scheduler) checkPool(ctx context.Context) bool {
	n, err := s.prekeys.OneTimePoolSize()
	if err != nil {
		s.log.WithError(err).Warn("one-time pool check failed")
		return false
	}
	if n >= s.LowWater {
		return false
	}
	s.log.WithFields(logrus.Fields{"pool": n, "low_water": s.LowWater}).Info("one-time pool below low-water mark")
	return s.RotateNow(ctx)
}
