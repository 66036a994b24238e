package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the truncated digest length in bytes.
const fingerprintLen = 10

// Fingerprint returns a short hex fingerprint of a public key,
// suitable for out-of-band identity comparison. SHA-256 truncated
// to 20 hex characters.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:fingerprintLen])
}
