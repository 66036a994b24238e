package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
)

// GenerateEd25519 returns a new Ed25519 signing key pair.
func GenerateEd25519() (priv, pub []byte, err error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return sk, pk, nil
}

// SignEd25519 signs msg with priv and returns the signature.
func SignEd25519(priv, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv), msg)
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}
