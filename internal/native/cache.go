package native

import (
	"sync"

	"keyward/internal/domain"
)

// KeyCache holds warmed in-memory copies of the material the dispatch
// handler may be asked for: the identity pair, the registration id and
// the serialized private records. It is read-mostly after warmup; each
// category has its own lock so a rotation writing signed records never
// blocks a dispatch reading a one-time record.
type KeyCache struct {
	idMu     sync.RWMutex
	identity domain.IdentityKeyPair
	regID    domain.RegistrationID

	signedMu sync.RWMutex
	signed   map[domain.RecordID][]byte

	kyberMu sync.RWMutex
	kyber   map[domain.RecordID][]byte

	oneTimeMu sync.RWMutex
	oneTime   map[domain.RecordID][]byte
}

// NewKeyCache returns an empty cache.
func NewKeyCache() *KeyCache {
	return &KeyCache{
		signed:  map[domain.RecordID][]byte{},
		kyber:   map[domain.RecordID][]byte{},
		oneTime: map[domain.RecordID][]byte{},
	}
}

// SetIdentity warms the identity pair.
func (c *KeyCache) SetIdentity(pair domain.IdentityKeyPair) {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.identity = pair
}

// Identity returns the warmed identity pair, if set.
func (c *KeyCache) Identity() (domain.IdentityKeyPair, bool) {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	return c.identity, !c.identity.IsZero()
}

// SetRegistrationID warms the registration id.
func (c *KeyCache) SetRegistrationID(id domain.RegistrationID) {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.regID = id
}

// RegistrationID returns the warmed registration id, if set.
func (c *KeyCache) RegistrationID() (domain.RegistrationID, bool) {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	return c.regID, c.regID != 0
}

// PutRecord warms one serialized private record.
func (c *KeyCache) PutRecord(kind domain.RecordKind, id domain.RecordID, serialized []byte) {
	mu, m := c.category(kind)
	if m == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	m[id] = append([]byte(nil), serialized...)
}

// Record returns one warmed serialized record.
func (c *KeyCache) Record(kind domain.RecordKind, id domain.RecordID) ([]byte, bool) {
	mu, m := c.category(kind)
	if m == nil {
		return nil, false
	}
	mu.RLock()
	defer mu.RUnlock()
	b, ok := m[id]
	return b, ok
}

// DropRecord evicts one record, e.g. a consumed one-time prekey.
func (c *KeyCache) DropRecord(kind domain.RecordKind, id domain.RecordID) {
	mu, m := c.category(kind)
	if m == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	delete(m, id)
}

func (c *KeyCache) category(kind domain.RecordKind) (*sync.RWMutex, map[domain.RecordID][]byte) {
	switch kind {
	case domain.RecordSigned:
		return &c.signedMu, c.signed
	case domain.RecordKyber:
		return &c.kyberMu, c.kyber
	case domain.RecordOneTime:
		return &c.oneTimeMu, c.oneTime
	default:
		return nil, nil
	}
}

// DispatchHandler returns a handler serving record requests purely from
// this cache. It never touches storage, which keeps the synchronous
// native dispatch path free of blocking I/O.
func (c *KeyCache) DispatchHandler() DispatchHandler {
	return func(req RecordRequest) (RecordResponse, int32) {
		switch req.Kind {
		case domain.RecordIdentity:
			pair, ok := c.Identity()
			if !ok {
				return RecordResponse{}, DispatchNotFound
			}
			return RecordResponse{Identity: pair}, DispatchOK
		case domain.RecordRegistration:
			id, ok := c.RegistrationID()
			if !ok {
				return RecordResponse{}, DispatchNotFound
			}
			return RecordResponse{RegistrationID: id}, DispatchOK
		case domain.RecordSigned, domain.RecordKyber, domain.RecordOneTime:
			b, ok := c.Record(req.Kind, req.ID)
			if !ok {
				return RecordResponse{}, DispatchNotFound
			}
			return RecordResponse{Serialized: b}, DispatchOK
		default:
			return RecordResponse{}, DispatchBadRequest
		}
	}
}
