package project

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// hashParts hashes the given parts with a separator so that ("ab", "c") and
// ("a", "bc") never collide.
func hashParts(parts ...string) string {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
