package prekey

import (
	"context"

	"github.com/sirupsen/logrus"

	"keyward/internal/domain"
	"keyward/internal/errs"
	"keyward/internal/native"
)

// Service manages prekey records and builds the public bundle.
type Service struct {
	ids      domain.IdentityService
	records  domain.RecordStore
	boundary native.Boundary
	cache    *native.KeyCache
	log      *logrus.Logger

	user   domain.UserID
	device domain.DeviceID
}

// New returns a prekey service publishing material as (user, device).
func New(
	ids domain.IdentityService,
	records domain.RecordStore,
	boundary native.Boundary,
	cache *native.KeyCache,
	log *logrus.Logger,
	user domain.UserID,
	device domain.DeviceID,
) *Service {
	return &Service{
		ids:      ids,
		records:  records,
		boundary: boundary,
		cache:    cache,
		log:      log,
		user:     user,
		device:   device,
	}
}

// GeneratePreKeyBundle produces one signed prekey, one kyber prekey and
// one one-time prekey, persists their private records, marks the signed
// and kyber records current, and returns the public-only bundle.
//
// Calling it again never invalidates earlier ids: old signed and kyber
// records stay in the arena so delayed handshakes still resolve.
func (s *Service) GeneratePreKeyBundle(ctx context.Context) (domain.PreKeyBundle, error) {
	identity, err := s.ids.GetOrCreate(ctx)
	if err != nil {
		if identity.IsZero() {
			return domain.PreKeyBundle{}, err
		}
		// Usable but unpersisted identity; generation proceeds.
		s.log.WithError(err).Warn("generating prekeys against an unpersisted identity")
	}
	regID, err := s.ids.RegistrationID(ctx)
	if err != nil && regID == 0 {
		return domain.PreKeyBundle{}, err
	}

	signed, err := s.generate(domain.RecordSigned, identity)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	kyber, err := s.generate(domain.RecordKyber, identity)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	oneTime, err := s.generate(domain.RecordOneTime, identity)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	for _, kind := range []domain.RecordKind{domain.RecordSigned, domain.RecordKyber} {
		id := signed.ID
		if kind == domain.RecordKyber {
			id = kyber.ID
		}
		if err := s.records.SetCurrentRecordID(kind, id); err != nil {
			return domain.PreKeyBundle{}, errs.Persistence("update current prekey pointer", err)
		}
	}

	return domain.PreKeyBundle{
		UserID:         s.user,
		DeviceID:       s.device,
		RegistrationID: regID,

		IdentityKey: identity.Public,
		SigningKey:  identity.SigningPublic,

		SignedPreKeyID:        signed.ID,
		SignedPreKey:          signed.Public,
		SignedPreKeySignature: signed.Signature,

		KyberPreKeyID:        kyber.ID,
		KyberPreKey:          kyber.Public,
		KyberPreKeySignature: kyber.Signature,

		OneTimePreKeyID: oneTime.ID,
		OneTimePreKey:   oneTime.Public,
	}, nil
}

// ConsumeOneTimePreKey removes a one-time record once a peer's initial
// handshake has used it.
func (s *Service) ConsumeOneTimePreKey(id domain.RecordID) error {
	if err := s.records.DeleteRecord(domain.RecordOneTime, id); err != nil {
		return errs.Persistence("delete one-time prekey record", err)
	}
	if s.cache != nil {
		s.cache.DropRecord(domain.RecordOneTime, id)
	}
	return nil
}

// OneTimePoolSize reports how many one-time prekeys remain locally.
func (s *Service) OneTimePoolSize() (int, error) {
	ids, err := s.records.ListRecordIDs(domain.RecordOneTime)
	if err != nil {
		return 0, errs.Persistence("list one-time prekey records", err)
	}
	return len(ids), nil
}

// WarmCache loads every retained record into the dispatch cache; called
// once at startup so the synchronous dispatch path never reads disk.
func (s *Service) WarmCache() error {
	if s.cache == nil {
		return nil
	}
	for _, kind := range []domain.RecordKind{domain.RecordSigned, domain.RecordKyber, domain.RecordOneTime} {
		ids, err := s.records.ListRecordIDs(kind)
		if err != nil {
			return errs.Persistence("list prekey records", err)
		}
		for _, id := range ids {
			rec, ok, err := s.records.LoadRecord(kind, id)
			if err != nil {
				return errs.Persistence("load prekey record", err)
			}
			if ok {
				s.cache.PutRecord(kind, id, rec.Serialized)
			}
		}
	}
	return nil
}

func (s *Service) generate(kind domain.RecordKind, identity domain.IdentityKeyPair) (domain.PreKeyRecord, error) {
	id, err := s.records.NextRecordID()
	if err != nil {
		return domain.PreKeyRecord{}, errs.Persistence("allocate record id", err)
	}

	var rec domain.PreKeyRecord
	switch kind {
	case domain.RecordSigned:
		rec, err = s.boundary.GenerateSignedPreKey(identity, id)
	case domain.RecordKyber:
		rec, err = s.boundary.GenerateKyberPreKey(identity, id)
	default:
		rec, err = s.boundary.GenerateOneTimePreKey(id)
	}
	if err != nil {
		return domain.PreKeyRecord{}, err
	}

	if err := s.records.SaveRecord(kind, rec); err != nil {
		return domain.PreKeyRecord{}, errs.Persistence("persist prekey record", err)
	}
	if s.cache != nil {
		s.cache.PutRecord(kind, rec.ID, rec.Serialized)
	}
	return rec, nil
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
