package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key is the lower-case hex SHA-256 digest of a normalized dispatch note.
type Key string

// String returns the hex digest.
func (k Key) String() string {
	return string(k)
}

// Normalize trims surrounding whitespace and lower-cases raw text.
// Two notes differing only in case or surrounding whitespace normalize
// to the same value.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ComputeKey derives the cache key for raw text. It is pure and never fails;
// the empty string hashes to the SHA-256 of zero bytes.
func ComputeKey(raw string) Key {
	sum := sha256.Sum256([]byte(Normalize(raw)))
	return Key(hex.EncodeToString(sum[:]))
}

// StorageKey returns the namespaced storage key for k.
// Format: <namespace>_<hex digest>
func StorageKey(namespace string, k Key) string {
	return namespace + "_" + string(k)
}
