package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the number of hex characters kept from the full digest.
const fingerprintLen = 16

// ContentFingerprint returns a deterministic, truncated SHA-256 hex digest of
// the source content. Equal content always yields an equal fingerprint.
func ContentFingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
