package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// NewRefreshToken returns an opaque 256-bit token.
func NewRefreshToken() (string, error) {
	return randomHex(32)
}

// HashToken is how refresh tokens are stored at rest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
