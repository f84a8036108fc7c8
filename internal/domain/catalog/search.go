package catalog

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/failure"
)

// QueryKind selects a search predicate.
type QueryKind string

const (
	QueryPrefix   QueryKind = "prefix"
	QueryContent  QueryKind = "content"
	QueryCategory QueryKind = "category"
	QuerySize     QueryKind = "size"
	QueryGlob     QueryKind = "glob"
)

// Query describes one search. Term is the prefix, substring or glob
// pattern; Category and Min/Max are used by their respective kinds.
type Query struct {
	Kind     QueryKind `json:"kind"`
	Term     string    `json:"term,omitempty"`
	Category Category  `json:"category,omitempty"`
	Min      int64     `json:"min,omitempty"`
	Max      int64     `json:"max,omitempty"`
}

// Search dispatches q to the matching predicate.
func (ix *Index) Search(q Query) ([]Record, error) {
	switch q.Kind {
	case QueryPrefix:
		return ix.ByPrefix(q.Term), nil
	case QueryContent:
		return ix.ByContent(q.Term), nil
	case QueryCategory:
		return ix.ByCategory(q.Category), nil
	case QuerySize:
		return ix.BySizeRange(q.Min, q.Max)
	case QueryGlob:
		return ix.ByGlob(q.Term)
	default:
		return nil, failure.Validation("search", string(q.Kind), failure.ErrInvalidQuery)
	}
}

// ByPrefix returns records whose name starts with prefix.
func (ix *Index) ByPrefix(prefix string) []Record {
	return ix.collect(func(r *Record) bool {
		return strings.HasPrefix(r.Name, prefix)
	})
}

// ByContent returns files whose cached content contains sub.
func (ix *Index) ByContent(sub string) []Record {
	return ix.collect(func(r *Record) bool {
		return !r.IsDir && strings.Contains(r.Content, sub)
	})
}

// ByCategory returns records of category c.
func (ix *Index) ByCategory(c Category) []Record {
	return ix.collect(func(r *Record) bool {
		return r.Category == c
	})
}

// BySizeRange returns files with min <= size <= max. Directories never match.
func (ix *Index) BySizeRange(min, max int64) ([]Record, error) {
	if min < 0 || max < 0 || min > max {
		return nil, failure.Validation("search", fmt.Sprintf("[%d,%d]", min, max), failure.ErrInvalidSizeRange)
	}
	return ix.collect(func(r *Record) bool {
		return !r.IsDir && r.Size >= min && r.Size <= max
	}), nil
}

// ByGlob returns records whose name matches a doublestar pattern.
func (ix *Index) ByGlob(pattern string) ([]Record, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, failure.Validation("search", pattern, failure.ErrInvalidQuery)
	}
	return ix.collect(func(r *Record) bool {
		ok, err := doublestar.Match(pattern, r.Name)
		return err == nil && ok
	}), nil
}

// collect walks the index in order and touches every match.
func (ix *Index) collect(match func(*Record) bool) []Record {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	now := ix.now()
	out := []Record{}
	for _, h := range ix.order {
		rec := &ix.slots[h.slot].rec
		if match(rec) {
			rec.LastAccessedAt = now
			out = append(out, *rec)
		}
	}
	return out
}
