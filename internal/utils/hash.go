package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSHA256 returns the hex-encoded SHA-256 digest of content.
func ComputeSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
