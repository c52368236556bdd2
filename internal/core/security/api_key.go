package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey creates a secure random API key and its SHA-256 hash.
// The raw key is shown to the caller exactly once; only the hash is stored.
func GenerateAPIKey() (realKey, keyHash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	realKey = fmt.Sprintf("rk_live_%s", hex.EncodeToString(buf))
	keyHash = HashKey(realKey)
	return realKey, keyHash, nil
}

// HashKey returns the hex SHA-256 of a raw key, the stored form.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ValidateKey checks a raw key against a stored hash in constant time.
func ValidateKey(providedKey, storedHash string) bool {
	computed := HashKey(providedKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
