package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// refreshTokenLen is the entropy of an opaque refresh token in bytes.
const refreshTokenLen = 32

// GenerateRefreshToken mints an opaque refresh token and the hash the
// gateway stores in its place. Only the hash is ever persisted; the raw
// token exists solely in the login/refresh response.
func GenerateRefreshToken() (token, hash string, err error) {
	raw := make([]byte, refreshTokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(raw)
	return token, HashRefreshToken(token), nil
}

// HashRefreshToken maps a refresh token to its stored lookup key, the
// hex-encoded SHA-256 of the token string.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
