// Package runhash computes deterministic identifiers for runs and trades.
// Re-running the same configuration over the same data yields the same IDs,
// which makes persisted results naturally idempotent under append-only stores.
package runhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(symbol|strategy_id|first_bar_ts|last_bar_ts|bar_count)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(symbol, strategyID string, firstBarTs, lastBarTs int64, barCount int) string {
	data := fmt.Sprintf("%s|%s|%d|%d|%d",
		symbol,
		strategyID,
		firstBarTs,
		lastBarTs,
		barCount,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
