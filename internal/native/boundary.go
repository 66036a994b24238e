package native

import "keyward/internal/domain"

// Boundary is the key-generation surface of the crypto library.
//
// Every prekey generator returns a PreKeyRecord whose Serialized field
// is the private record in the library's own format; callers persist it
// without inspecting it. Signed and kyber prekeys are signed by the
// identity's signing key, binding them to the identity.
type Boundary interface {
	GenerateIdentityKeyPair() (domain.IdentityKeyPair, error)
	GenerateRegistrationID() (domain.RegistrationID, error)

	GenerateSignedPreKey(identity domain.IdentityKeyPair, id domain.RecordID) (domain.PreKeyRecord, error)
	GenerateKyberPreKey(identity domain.IdentityKeyPair, id domain.RecordID) (domain.PreKeyRecord, error)
	GenerateOneTimePreKey(id domain.RecordID) (domain.PreKeyRecord, error)
}
