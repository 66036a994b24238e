package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
)

// X25519KeySize is the byte length of X25519 public and private keys.
const X25519KeySize = 32

// GenerateX25519 returns a fresh Curve25519 key pair.
// The private key is clamped per RFC 7748.
func GenerateX25519() (priv, pub []byte, err error) {
	priv = make([]byte, X25519KeySize)
	if _, err = rand.Read(priv); err != nil {
		return nil, nil, err
	}
	clamp(priv)
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
