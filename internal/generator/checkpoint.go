package generator

import (
	"encoding/json"
	"fmt"
	"os"

	"codeberg.org/snonux/lexirecall/internal/card"
	"codeberg.org/snonux/lexirecall/internal/storage"
)

// Checkpoint is the recovery record for an in-flight batch generation.
// Requested identifies the batch (compared as an order-insensitive set);
// Completed is the prefix of finished cards in input order.
type Checkpoint struct {
	Requested []string        `json:"requested"`
	Completed []card.WordCard `json:"completed"`
}

// loadCheckpoint reads the stored checkpoint. Read or parse failures are
// logged and reported as "no checkpoint".
func loadCheckpoint(backend storage.Backend) (Checkpoint, bool) {
	data, ok, err := backend.Get(storage.KeyCheckpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read generation checkpoint: %v\n", err)
		return Checkpoint{}, false
	}
	if !ok {
		return Checkpoint{}, false
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt generation checkpoint, discarding: %v\n", err)
		return Checkpoint{}, false
	}
	return cp, true
}

// saveCheckpoint persists the checkpoint. Failures are logged but never
// abort the batch; a lost checkpoint only costs resumability.
func saveCheckpoint(backend storage.Backend, cp Checkpoint) {
	data, err := json.Marshal(cp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to encode generation checkpoint: %v\n", err)
		return
	}
	if err := backend.Set(storage.KeyCheckpoint, data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save generation checkpoint: %v\n", err)
	}
}

// clearCheckpoint removes the checkpoint slot
func clearCheckpoint(backend storage.Backend) {
	if err := backend.Delete(storage.KeyCheckpoint); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to clear generation checkpoint: %v\n", err)
	}
}

// sameWordSet compares two word lists as sets, order-independent
func sameWordSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	if len(set) != len(a) {
		// Duplicates make the lengths lie; fall back to comparing the
		// deduplicated sets.
		return sameWordSet(dedupe(a), dedupe(b))
	}
	for _, w := range b {
		if !set[w] {
			return false
		}
	}
	return true
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, w := range in {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
