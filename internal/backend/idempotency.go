package backend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// IdempotencyKey builds a deterministic key from all provided parts.
func IdempotencyKey(parts ...any) string {
	h := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(h, "%v:", part)
	}

	return hex.EncodeToString(h.Sum(nil))
}
