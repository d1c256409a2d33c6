package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestRect(t *testing.T) {
	main := Rect{X: 5, Y: 5, Width: 290, Height: 135}
	volume := Rect{X: 5, Y: 140, Width: 290, Height: 55}

	assert.Equal(t, main.Right(), float64(295))
	assert.Equal(t, main.Bottom(), float64(140))
	assert.True(t, main.ContainsY(5))
	assert.True(t, main.ContainsY(140))
	assert.False(t, main.ContainsY(141))

	// Touching panels do not overlap.
	assert.False(t, main.Overlaps(volume))
	assert.False(t, volume.Overlaps(main))

	volume.Y = 139
	assert.True(t, main.Overlaps(volume))
}
