package types

// RecordKind names a category of locally held key record.
type RecordKind string

const (
	// RecordSigned is a medium-term signed prekey record.
	RecordSigned RecordKind = "signed"
	// RecordKyber is a post-quantum KEM prekey record.
	RecordKyber RecordKind = "kyber"
	// RecordOneTime is a single-use prekey record.
	RecordOneTime RecordKind = "one_time"
	// RecordIdentity addresses the identity key pair in dispatch requests.
	RecordIdentity RecordKind = "identity"
	// RecordRegistration addresses the registration id in dispatch requests.
	RecordRegistration RecordKind = "registration"
)

// PreKeyRecord is the device-private result of generating one unit of
// prekey material. Serialized is the opaque record produced by the
// native boundary; it embeds the private key and must never be published.
type PreKeyRecord struct {
	ID         RecordID `json:"id"`
	Public     []byte   `json:"public"`
	Signature  []byte   `json:"signature,omitempty"`
	Serialized []byte   `json:"serialized"`
	CreatedAt  int64    `json:"created_at"`
}
