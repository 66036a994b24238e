package types

// IdentityKeyPair holds the device's long-term key material: an X25519
// pair for Diffie-Hellman and an Ed25519 pair that signs prekeys.
//
// The private halves never leave the device; only Public and
// SigningPublic ever appear in a PreKeyBundle.
type IdentityKeyPair struct {
	Public         []byte `json:"public"`
	Private        []byte `json:"private"`
	SigningPublic  []byte `json:"signing_public"`
	SigningPrivate []byte `json:"signing_private"`
}

// IsZero reports whether the pair has no key material.
func (k IdentityKeyPair) IsZero() bool {
	return len(k.Public) == 0 && len(k.Private) == 0
}

// PublicOnly returns a copy with the private halves stripped.
func (k IdentityKeyPair) PublicOnly() IdentityKeyPair {
	return IdentityKeyPair{
		Public:        append([]byte(nil), k.Public...),
		SigningPublic: append([]byte(nil), k.SigningPublic...),
	}
}
