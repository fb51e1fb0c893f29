package changeling

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashChunk computes the SHA-256 hash of the trimmed chunk text.
func HashChunk(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a chunk hash and target language code.
func CacheKey(hash, langCode string) string {
	return hash + ":" + langCode
}
