// Package publisher uploads public prekey bundles to the directory,
// holding the invariant of at most one active bundle per (user, device)
// through an explicit consume-then-insert sequence.
package publisher
