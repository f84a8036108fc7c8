// Package id generates the identifiers used by the workspace.
//
// Recycle-bin items are keyed by prefixed ULIDs so that listing them by ID
// also lists them in staging order. Prefixes keep IDs readable in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ItemID identifies a staged recycle-bin item
type ItemID string

// ItemPrefix prefixes every ItemID
const ItemPrefix = "rbi"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand, made monotonic so
// IDs generated within the same millisecond still sort in creation order.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID stamped with t
func (g *Generator) Generate(t time.Time) ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

// GenerateString creates a new ULID for the current time as a string
func (g *Generator) GenerateString() string {
	return g.Generate(time.Now()).String()
}

// GenerateWithPrefix creates a prefixed ULID string stamped with t
func (g *Generator) GenerateWithPrefix(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate(t).String())
}

// NewItemID generates a recycle-bin item ID stamped with the deletion time
func (g *Generator) NewItemID(deletedAt time.Time) ItemID {
	return ItemID(g.GenerateWithPrefix(ItemPrefix, deletedAt))
}

func (id ItemID) String() string { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Parse parses a ULID string, stripping a known prefix first
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the timestamp from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
