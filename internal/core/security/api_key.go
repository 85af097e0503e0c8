package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey creates a new key and its hash.
// Returns: (realKey, hash). The real key is shown to the caller once;
// only the hash is kept.
func GenerateAPIKey() (string, string, error) {
	// 1. Generate 32 random bytes
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// 2. Convert to hex string
	randomString := hex.EncodeToString(bytes)

	// 3. Add prefix (like Stripe)
	realKey := fmt.Sprintf("lg_live_%s", randomString)

	// 4. Hash it (SHA256) - this is what we store
	hash := sha256.Sum256([]byte(realKey))
	hashedKey := hex.EncodeToString(hash[:])

	return realKey, hashedKey, nil
}

// HashKey returns the SHA256 hex digest used to look a key up.
// We never store or compare plain text keys.
func HashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// ValidateKey checks if a provided key matches the stored hash.
func ValidateKey(providedKey, storedHash string) bool {
	return HashKey(providedKey) == storedHash
}
