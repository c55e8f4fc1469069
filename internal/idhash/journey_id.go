// Package idhash computes deterministic identifiers for derived
// analytical artifacts.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeJourneyID computes a deterministic journey identifier.
// Formula: base58(SHA256(customer_id|first_ts|last_ts|touchpoints)).
// The same touchpoint window always maps to the same ID, so re-running
// a snapshot reproduces identical attribution keys.
func ComputeJourneyID(customerID string, firstTimestamp, lastTimestamp int64, touchpointCount int) string {
	data := fmt.Sprintf("%s|%d|%d|%d", customerID, firstTimestamp, lastTimestamp, touchpointCount)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
