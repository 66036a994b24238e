package types

// PreKeyBundle is the public-only collection of prekey material a peer
// needs to initiate a session. Every field is safe to publish.
type PreKeyBundle struct {
	UserID         UserID         `json:"user_id"`
	DeviceID       DeviceID       `json:"device_id"`
	RegistrationID RegistrationID `json:"registration_id"`

	IdentityKey []byte `json:"identity_key"`
	SigningKey  []byte `json:"signing_key"`

	SignedPreKeyID        RecordID `json:"signed_pre_key_id"`
	SignedPreKey          []byte   `json:"signed_pre_key"`
	SignedPreKeySignature []byte   `json:"signed_pre_key_signature"`

	KyberPreKeyID        RecordID `json:"kyber_pre_key_id,omitempty"`
	KyberPreKey          []byte   `json:"kyber_pre_key,omitempty"`
	KyberPreKeySignature []byte   `json:"kyber_pre_key_signature,omitempty"`

	OneTimePreKeyID RecordID `json:"one_time_pre_key_id,omitempty"`
	OneTimePreKey   []byte   `json:"one_time_pre_key,omitempty"`
}

// HasOneTimePreKey reports whether the bundle carries a one-time prekey.
func (b PreKeyBundle) HasOneTimePreKey() bool { return len(b.OneTimePreKey) > 0 }

// HasKyberPreKey reports whether the bundle carries a KEM prekey.
func (b PreKeyBundle) HasKyberPreKey() bool { return len(b.KyberPreKey) > 0 }

// WithoutOneTimePreKey returns a copy of the bundle with the one-time
// prekey fields cleared.
func (b PreKeyBundle) WithoutOneTimePreKey() PreKeyBundle {
	b.OneTimePreKeyID = 0
	b.OneTimePreKey = nil
	return b
}
