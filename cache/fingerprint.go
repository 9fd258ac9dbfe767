package cache

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint derives a deterministic cache key from normalized input text
// and the parameters that affect the result. Identical inputs and
// parameters always fingerprint identically.
func Fingerprint(text string, params ...any) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	for _, param := range params {
		fmt.Fprintf(h, "|%v", param)
	}
	return hex.EncodeToString(h.Sum(nil))
}
