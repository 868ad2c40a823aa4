package runhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(run_id|slot_index|entry_time|exit_time)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID string, slotIndex int, entryTimeMs, exitTimeMs int64) string {
	data := fmt.Sprintf("%s|%d|%d|%d",
		runID,
		slotIndex,
		entryTimeMs,
		exitTimeMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
