package native

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/cloudflare/circl/kem/kyber/kyber768"

	"keyward/internal/crypto"
	"keyward/internal/domain"
	"keyward/internal/errs"
)

// Kyber768 sizes, re-exported for callers validating wire material.
const (
	KyberPublicKeySize  = kyber768.PublicKeySize
	KyberPrivateKeySize = kyber768.PrivateKeySize
)

// Library is the in-process crypto library: X25519 for identity and
// classic prekeys, Ed25519 for signatures, Kyber768 for the KEM prekey.
type Library struct{}

// NewLibrary loads the in-process crypto library.
func NewLibrary() *Library { return &Library{} }

// GenerateIdentityKeyPair produces a fresh long-term identity.
func (l *Library) GenerateIdentityKeyPair() (domain.IdentityKeyPair, error) {
	xPriv, xPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.IdentityKeyPair{}, errs.KeyGeneration("generate identity dh pair", err)
	}
	edPriv, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.IdentityKeyPair{}, errs.KeyGeneration("generate identity signing pair", err)
	}
	return domain.IdentityKeyPair{
		Public:         xPub,
		Private:        xPriv,
		SigningPublic:  edPub,
		SigningPrivate: edPriv,
	}, nil
}

// GenerateRegistrationID draws a registration id uniformly from the
// valid range [1, 16380].
func (l *Library) GenerateRegistrationID() (domain.RegistrationID, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, errs.KeyGeneration("generate registration id", err)
	}
	span := uint32(domain.MaxRegistrationID - domain.MinRegistrationID + 1)
	n := binary.BigEndian.Uint32(buf[:]) % span
	return domain.MinRegistrationID + domain.RegistrationID(n), nil
}

// GenerateSignedPreKey produces an X25519 prekey signed by the identity.
func (l *Library) GenerateSignedPreKey(identity domain.IdentityKeyPair, id domain.RecordID) (domain.PreKeyRecord, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.PreKeyRecord{}, errs.KeyGeneration("generate signed prekey", err)
	}
	sig := crypto.SignEd25519(identity.SigningPrivate, pub)
	return l.sealRecord(domain.RecordSigned, id, priv, pub, sig)
}

// GenerateKyberPreKey produces a Kyber768 KEM prekey signed by the identity.
func (l *Library) GenerateKyberPreKey(identity domain.IdentityKeyPair, id domain.RecordID) (domain.PreKeyRecord, error) {
	pk, sk, err := kyber768.GenerateKeyPair(rand.Reader)
	if err != nil {
		return domain.PreKeyRecord{}, errs.KeyGeneration("generate kyber prekey", err)
	}
	pub := make([]byte, kyber768.PublicKeySize)
	priv := make([]byte, kyber768.PrivateKeySize)
	pk.Pack(pub)
	sk.Pack(priv)

	sig := crypto.SignEd25519(identity.SigningPrivate, pub)
	return l.sealRecord(domain.RecordKyber, id, priv, pub, sig)
}

// GenerateOneTimePreKey produces an unsigned single-use X25519 prekey.
func (l *Library) GenerateOneTimePreKey(id domain.RecordID) (domain.PreKeyRecord, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.PreKeyRecord{}, errs.KeyGeneration("generate one-time prekey", err)
	}
	return l.sealRecord(domain.RecordOneTime, id, priv, pub, nil)
}

func (l *Library) sealRecord(
	kind domain.RecordKind,
	id domain.RecordID,
	priv, pub, sig []byte,
) (domain.PreKeyRecord, error) {
	now := time.Now().Unix()
	serialized, err := serializedRecord{
		V:       recordFormatVersion,
		Kind:    kind,
		ID:      id,
		Private: priv,
		Public:  pub,
		Sig:     sig,
		At:      now,
	}.marshal()
	if err != nil {
		return domain.PreKeyRecord{}, errs.KeyGeneration("serialize prekey record", err)
	}
	return domain.PreKeyRecord{
		ID:         id,
		Public:     pub,
		Signature:  sig,
		Serialized: serialized,
		CreatedAt:  now,
	}, nil
}

// Compile-time assertion that Library implements Boundary.
var _ Boundary = (*Library)(nil)
