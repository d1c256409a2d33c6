package interaction

import (
	"math"
	"testing"

	"github.com/dnldd/candlechart/geometry"
	"github.com/peterldowns/testy/assert"
)

func TestNearest(t *testing.T) {
	candles := []geometry.Candle{
		{Index: 0, X: 50, Valid: true},
		{Index: 1, X: 150, Valid: true},
		{Index: 2, X: 250},
		{Index: 3, X: 350, Valid: true},
	}

	index := NewIndex(candles)
	assert.Equal(t, index.Len(), 3)

	tests := []struct {
		name string
		px   float64
		want int
	}{
		{"left of every candle", -40, 0},
		{"exact centre", 150, 1},
		{"closer to the later candle", 120, 1},
		{"tie resolves to the earlier candle", 100, 0},
		{"gaps are skipped", 240, 1},
		{"gap tie resolves earlier", 250, 1},
		{"past the gap", 260, 3},
		{"right of every candle", 900, 3},
	}

	for _, test := range tests {
		pos, ok := index.Nearest(test.px)
		if !ok {
			t.Errorf("%s: expected a match", test.name)
			continue
		}
		if pos != test.want {
			t.Errorf("%s: expected candle %d, got %d", test.name, test.want, pos)
		}
	}
}

func TestNearestEmpty(t *testing.T) {
	index := NewIndex([]geometry.Candle{{Index: 0, X: 10}})
	_, ok := index.Nearest(10)
	assert.False(t, ok)

	index = NewIndex([]geometry.Candle{{Index: 0, X: 10, Valid: true}})
	_, ok = index.Nearest(math.NaN())
	assert.False(t, ok)
}
