// Package store provides file-based persistence for the key-bootstrap
// layer.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. Private key material (the identity
// pair, registration id and serialized prekey records) is encrypted at
// rest with a passphrase-derived key; public material (the offline
// bundle cache, invite tokens) is stored as plain JSON. All methods are
// concurrency-safe via internal locking, and every write goes through a
// temp-file-plus-rename so a crash never leaves a torn file.
//
// The package includes stores for:
//   - Identity keys and registration id (IdentityFileStore)
//   - PreKey records with per-category current pointers (RecordFileStore)
//   - Peers' offline bundles (BundleCacheStore)
//   - Invitation tokens (TokenFileStore)
package store
