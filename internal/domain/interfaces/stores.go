package interfaces

import (
	"time"

	domaintypes "keyward/internal/domain/types"
)

// IdentityStore persists the long-term identity key pair and the
// registration id, encrypted at rest.
type IdentityStore interface {
	SaveIdentity(pair domaintypes.IdentityKeyPair) error
	LoadIdentity() (domaintypes.IdentityKeyPair, bool, error)

	SaveRegistrationID(id domaintypes.RegistrationID) error
	LoadRegistrationID() (domaintypes.RegistrationID, bool, error)
}

// RecordStore keeps private prekey records as an arena keyed by numeric
// id, with an explicit "current" pointer per category. Superseded signed
// and kyber records are retained until a pruning policy removes them;
// one-time records are deleted individually on consumption.
type RecordStore interface {
	SaveRecord(kind domaintypes.RecordKind, rec domaintypes.PreKeyRecord) error
	LoadRecord(kind domaintypes.RecordKind, id domaintypes.RecordID) (domaintypes.PreKeyRecord, bool, error)
	DeleteRecord(kind domaintypes.RecordKind, id domaintypes.RecordID) error
	ListRecordIDs(kind domaintypes.RecordKind) ([]domaintypes.RecordID, error)

	SetCurrentRecordID(kind domaintypes.RecordKind, id domaintypes.RecordID) error
	CurrentRecordID(kind domaintypes.RecordKind) (domaintypes.RecordID, bool, error)

	// NextRecordID allocates a monotonically increasing id shared
	// across categories, so an id never refers to two records.
	NextRecordID() (domaintypes.RecordID, error)
}

// BundleCache stores peers' public bundles obtained out-of-band, bounded
// by a TTL. Reads enforce expiry and evict stale entries.
type BundleCache interface {
	Put(peer domaintypes.UserID, bundle domaintypes.PreKeyBundle, ttl time.Duration) error
	Get(peer domaintypes.UserID) (domaintypes.PreKeyBundle, bool, error)
	Invalidate(peer domaintypes.UserID) error
}

// TokenCache keeps invitation tokens used to satisfy directory
// eligibility when fetching a bundle for an out-of-community peer.
type TokenCache interface {
	PutToken(target domaintypes.UserID, token domaintypes.InviteToken) error
	Token(target domaintypes.UserID) (domaintypes.InviteToken, bool, error)
}
