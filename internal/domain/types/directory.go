package types

import "time"

// RemoteBundleRecord is one directory-side bundle row. At most one row
// per (UserID, DeviceID) has Consumed=false at any time.
type RemoteBundleRecord struct {
	Ref       BundleRecordRef `json:"ref"`
	UserID    UserID          `json:"user_id"`
	DeviceID  DeviceID        `json:"device_id"`
	Bundle    PreKeyBundle    `json:"bundle"`
	Consumed  bool            `json:"consumed"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Active reports whether the row is still serveable at the given time.
func (r RemoteBundleRecord) Active(now time.Time) bool {
	return !r.Consumed && now.Before(r.ExpiresAt)
}

// CachedBundle is an ephemeral local copy of a peer's public bundle,
// obtained out-of-band, for session bootstrap with no connectivity.
type CachedBundle struct {
	Bundle    PreKeyBundle `json:"bundle"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the entry is past its TTL at the given time.
func (c CachedBundle) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
