package catalog

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TotalsByCategory sums record sizes per category. Only categories that
// occur in the index appear; directories contribute zero.
func (ix *Index) TotalsByCategory() map[Category]int64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	totals := make(map[Category]int64)
	for _, h := range ix.order {
		rec := &ix.slots[h.slot].rec
		totals[rec.Category] += rec.Size
	}
	return totals
}

// SizeStats summarizes file sizes.
type SizeStats struct {
	Files      int     `json:"files"`
	Dirs       int     `json:"dirs"`
	TotalBytes int64   `json:"total_bytes"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"stddev"`
	Largest    int64   `json:"largest"`
}

// SizeStats computes size statistics over files. Directories are counted
// but excluded from the distribution.
func (ix *Index) SizeStats() SizeStats {
	ix.mu.RLock()
	sizes := make([]float64, 0, len(ix.order))
	var s SizeStats
	for _, h := range ix.order {
		rec := &ix.slots[h.slot].rec
		if rec.IsDir {
			s.Dirs++
			continue
		}
		sizes = append(sizes, float64(rec.Size))
		s.TotalBytes += rec.Size
		if rec.Size > s.Largest {
			s.Largest = rec.Size
		}
	}
	ix.mu.RUnlock()

	s.Files = len(sizes)
	if s.Files == 0 {
		return s
	}

	sort.Float64s(sizes)
	s.Mean = stat.Mean(sizes, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sizes, nil)
	if s.Files > 1 {
		s.StdDev = math.Sqrt(stat.Variance(sizes, nil))
	}
	return s
}
