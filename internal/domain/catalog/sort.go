package catalog

import (
	"strings"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// SortKey selects the field SortBy orders on.
type SortKey string

const (
	ByName     SortKey = "name"
	BySize     SortKey = "size"
	ByModified SortKey = "modified"
)

// ParseSortKey accepts the canonical keys plus a few aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return ByName, nil
	case "size":
		return BySize, nil
	case "modified", "modified_at", "modifiedat", "date":
		return ByModified, nil
	default:
		return "", failure.Validation("sort", s, failure.ErrInvalidSortKey)
	}
}

func (k SortKey) greater(a, b *Record) bool {
	switch k {
	case BySize:
		return a.Size > b.Size
	case ByModified:
		return a.ModifiedAt.After(b.ModifiedAt)
	default:
		return a.Name > b.Name
	}
}

// SortBy reorders the index by key.
//
// Adjacent entries swap only when the left one is strictly greater, so
// equal keys keep their relative order. Passes repeat until one makes no
// swap; each pass fixes the largest remaining element at the tail.
// Only handles move, so outstanding handles keep resolving.
func (ix *Index) SortBy(key SortKey) error {
	switch key {
	case ByName, BySize, ByModified:
	default:
		return failure.Validation("sort", string(key), failure.ErrInvalidSortKey)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	bound := len(ix.order)
	for bound > 1 {
		swapped := false
		for i := 0; i+1 < bound; i++ {
			left := &ix.slots[ix.order[i].slot].rec
			right := &ix.slots[ix.order[i+1].slot].rec
			if key.greater(left, right) {
				ix.order[i], ix.order[i+1] = ix.order[i+1], ix.order[i]
				swapped = true
			}
		}
		if !swapped {
			break
		}
		bound--
	}
	return nil
}
