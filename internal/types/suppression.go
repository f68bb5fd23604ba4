package types

import "time"

// SuppressionEntry records a human acknowledgment of a flagged dependency
// at a specific manifest state. It is never explicitly expired: a changed
// fingerprint simply stops matching the lookup key.
type SuppressionEntry struct {
	Coordinate          Coordinate `json:"coordinate"`
	ManifestFingerprint string     `json:"manifest_fingerprint"`
	AcknowledgedAt      time.Time  `json:"acknowledged_at"`
}
