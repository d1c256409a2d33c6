package interaction

import (
	"math"
	"sort"

	"github.com/dnldd/candlechart/geometry"
)

// entry represents an indexed candle centre.
type entry struct {
	x   float64
	pos int
}

// Index represents an ordered index over candle centres for nearest
// neighbour lookups. Gap candles are not indexed.
type Index struct {
	entries []entry
}

// NewIndex builds an index over the valid candles provided.
func NewIndex(candles []geometry.Candle) *Index {
	entries := make([]entry, 0, len(candles))
	for idx := range candles {
		if candles[idx].Valid {
			entries = append(entries, entry{x: candles[idx].X, pos: idx})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].x < entries[j].x
	})

	return &Index{entries: entries}
}

// Len returns the number of indexed candles.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Nearest returns the position of the candle whose centre is closest to the
// provided pixel x. Equidistant candles resolve to the earlier one. It
// returns false when the index is empty.
func (idx *Index) Nearest(px float64) (int, bool) {
	n := len(idx.entries)
	if n == 0 || math.IsNaN(px) {
		return 0, false
	}

	i := sort.Search(n, func(i int) bool {
		return idx.entries[i].x >= px
	})

	switch {
	case i == 0:
		return idx.entries[0].pos, true
	case i == n:
		return idx.entries[n-1].pos, true
	}

	before, after := idx.entries[i-1], idx.entries[i]
	if px-before.x <= after.x-px {
		return before.pos, true
	}

	return after.pos, true
}
