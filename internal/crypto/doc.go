// Package crypto exposes the minimal primitives the in-process crypto
// library is built on.
//
// Contents
//
//   - X25519 key generation with RFC 7748 clamping (GenerateX25519)
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// Callers should treat returned secrets as sensitive and rely on
// memzero.Zero when practical to reduce lifetime in memory.
package crypto
