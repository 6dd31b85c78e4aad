// Package digest fingerprints annotation files with BLAKE3 so a report can be
// tied to the exact inputs it was produced from.
package digest

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Size is the length of a hex-encoded digest.
const Size = 64

// Blake3Hash computes the BLAKE3 hash of data and returns it as a hex string.
func Blake3Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether s looks like a hex-encoded BLAKE3 digest.
func IsValid(s string) bool {
	if len(s) != Size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
