package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint hashes raw manifest text. The fingerprint scopes suppression
// validity: any byte change to the manifest produces a new fingerprint and
// silently invalidates prior acknowledgments for that path.
func Fingerprint(text []byte) string {
	sum := sha256.Sum256(text)
	return hex.EncodeToString(sum[:])
}
