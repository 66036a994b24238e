package types

// UserID identifies a directory-registered user.
type UserID string

// String returns the string form of the user id.
func (u UserID) String() string { return string(u) }

// DeviceID identifies one of a user's devices.
type DeviceID uint32

// PrimaryDeviceID is the device id used when a peer has not advertised
// a specific device.
const PrimaryDeviceID DeviceID = 1

// RecordID identifies a locally held key record within its category.
type RecordID uint32

// RegistrationID is the small stable per-install integer used in peer
// and session addressing.
type RegistrationID uint32

// Valid registration ids fall in [MinRegistrationID, MaxRegistrationID].
const (
	MinRegistrationID RegistrationID = 1
	MaxRegistrationID RegistrationID = 16380
)

// Valid reports whether the registration id is in the allowed range.
func (r RegistrationID) Valid() bool {
	return r >= MinRegistrationID && r <= MaxRegistrationID
}

// InviteToken is an opaque token presented to the directory to satisfy
// eligibility checks outside shared-group contexts.
type InviteToken string

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// BundleRecordRef identifies a single directory-side bundle row.
type BundleRecordRef string

// String returns the string form of the record reference.
func (r BundleRecordRef) String() string { return string(r) }
