package interfaces

import (
	"context"
	"time"

	domaintypes "keyward/internal/domain/types"
)

// IdentityService creates, loads and caches the device identity.
type IdentityService interface {
	// GetOrCreate returns the identity key pair, generating and
	// persisting one on first use. A usable pair may be returned
	// together with a persistence error; callers should treat that
	// error as a warning, not a failure.
	GetOrCreate(ctx context.Context) (domaintypes.IdentityKeyPair, error)

	// RegistrationID returns the stable per-install registration id,
	// generating it once, like the identity key.
	RegistrationID(ctx context.Context) (domaintypes.RegistrationID, error)

	FingerprintIdentity(ctx context.Context) (domaintypes.Fingerprint, error)
}

// PreKeyService generates prekey material and assembles public bundles.
type PreKeyService interface {
	// GeneratePreKeyBundle produces a fresh signed prekey, kyber prekey
	// and one-time prekey, persists their private records, and returns
	// the public-only bundle. Safe to call repeatedly: records for
	// earlier ids stay resolvable until pruned.
	GeneratePreKeyBundle(ctx context.Context) (domaintypes.PreKeyBundle, error)

	// ConsumeOneTimePreKey removes a one-time record once a session has
	// been established against it.
	ConsumeOneTimePreKey(id domaintypes.RecordID) error

	// OneTimePoolSize reports how many one-time prekeys remain.
	OneTimePoolSize() (int, error)
}

// PublisherService uploads public bundles to the directory, keeping at
// most one active row per (user, device).
type PublisherService interface {
	Publish(ctx context.Context, user domaintypes.UserID, bundle domaintypes.PreKeyBundle) error
}

// BundleService resolves peers' bundles, preferring the offline cache
// and falling back to the directory.
type BundleService interface {
	Fetch(ctx context.Context, peer domaintypes.UserID) (domaintypes.PreKeyBundle, error)

	// CacheRemoteBundle stores a bundle delivered out-of-band (for
	// example over a proximity transport) for later offline bootstrap.
	CacheRemoteBundle(peer domaintypes.UserID, bundle domaintypes.PreKeyBundle, ttl time.Duration) error

	// CacheInviteToken remembers a token for future eligibility-gated
	// fetches of the target's bundle.
	CacheInviteToken(target domaintypes.UserID, token domaintypes.InviteToken) error
}
