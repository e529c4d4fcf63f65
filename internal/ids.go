package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var idCounter atomic.Int64

// NewID creates a unique record ID from a seed string.
// Format: epochMillis_md5(seed)[:8], with a counter mixed into the
// timestamp so that IDs minted within the same millisecond stay unique.
func NewID(seed string) string {
	epochMillis := time.Now().UnixMilli() + idCounter.Add(1)

	hash := md5.Sum([]byte(seed))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}

// isAlphaNumeric checks if a rune is alphanumeric
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r >= 0x80
}
