// Package identity manages the device's long-term identity key pair and
// registration id: lazy creation on first access, encrypted persistence,
// and an in-memory cache warmed for the native dispatch fast path.
package identity
