// Package digest computes content checksums for cached file payloads.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a supported hash function.
type Algorithm string

const (
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"
)

// Parse maps a configured algorithm name to an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case SHA256, BLAKE2b:
		return a, nil
	default:
		return "", fmt.Errorf("unknown checksum algorithm %q", name)
	}
}

// Hasher provides extensible hashing functionality
type Hasher struct {
	algorithm Algorithm
}

// NewHasher creates a new hasher with the specified algorithm. Unknown
// algorithms fall back to BLAKE2b.
func NewHasher(algorithm Algorithm) *Hasher {
	switch algorithm {
	case SHA256, BLAKE2b:
	default:
		algorithm = BLAKE2b
	}
	return &Hasher{algorithm: algorithm}
}

var defaultHasher = NewHasher(BLAKE2b)

// Default returns the BLAKE2b hasher.
func Default() *Hasher { return defaultHasher }

// Algorithm reports the hash function in use.
func (h *Hasher) Algorithm() Algorithm { return h.algorithm }

// Hash returns the hex digest of data prefixed with the algorithm name,
// e.g. "blake2b:0e57...".
func (h *Hasher) Hash(data []byte) string {
	var sum []byte
	switch h.algorithm {
	case SHA256:
		s := sha256.Sum256(data)
		sum = s[:]
	default:
		s := blake2b.Sum256(data)
		sum = s[:]
	}
	return string(h.algorithm) + ":" + hex.EncodeToString(sum)
}

// Verify reports whether data hashes to sum.
func (h *Hasher) Verify(data []byte, sum string) bool {
	return h.Hash(data) == sum
}
