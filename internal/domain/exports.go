package domain

import (
	interfaces "keyward/internal/domain/interfaces"
	types "keyward/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID             = types.UserID
	DeviceID           = types.DeviceID
	RecordID           = types.RecordID
	RecordKind         = types.RecordKind
	RegistrationID     = types.RegistrationID
	InviteToken        = types.InviteToken
	Fingerprint        = types.Fingerprint
	BundleRecordRef    = types.BundleRecordRef
	IdentityKeyPair    = types.IdentityKeyPair
	PreKeyRecord       = types.PreKeyRecord
	PreKeyBundle       = types.PreKeyBundle
	RemoteBundleRecord = types.RemoteBundleRecord
	CachedBundle       = types.CachedBundle
)

// Re-exported constants for the common record categories and id ranges.
const (
	RecordSigned       = types.RecordSigned
	RecordKyber        = types.RecordKyber
	RecordOneTime      = types.RecordOneTime
	RecordIdentity     = types.RecordIdentity
	RecordRegistration = types.RecordRegistration

	PrimaryDeviceID   = types.PrimaryDeviceID
	MinRegistrationID = types.MinRegistrationID
	MaxRegistrationID = types.MaxRegistrationID
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore    = interfaces.IdentityStore
	RecordStore      = interfaces.RecordStore
	BundleCache      = interfaces.BundleCache
	TokenCache       = interfaces.TokenCache
	Directory        = interfaces.Directory
	IdentityService  = interfaces.IdentityService
	PreKeyService    = interfaces.PreKeyService
	PublisherService = interfaces.PublisherService
	BundleService    = interfaces.BundleService
)
