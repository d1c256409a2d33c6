package layout

import (
	"testing"

	"github.com/dnldd/candlechart/shared"
	"github.com/peterldowns/testy/assert"
)

func TestLookup(t *testing.T) {
	plan := compute(t, threeRecords(), &Options{Width: 300, Height: 200, ShowVolume: true})

	tests := []struct {
		name      string
		px, py    float64
		wantIndex int
		wantPanel Panel
	}{
		{"main panel", 160, 50, 1, MainPanel},
		{"volume panel", 10, 170, 0, VolumePanel},
		{"outside every panel", 400, 1, 2, NoPanel},
	}

	for _, test := range tests {
		hit, ok := plan.Lookup(test.px, test.py)
		if !ok {
			t.Errorf("%s: expected a hit", test.name)
			continue
		}
		if hit.Point.Index != test.wantIndex {
			t.Errorf("%s: expected point %d, got %d", test.name, test.wantIndex, hit.Point.Index)
		}
		if hit.Crosshair.Panel != test.wantPanel {
			t.Errorf("%s: expected panel %s, got %s", test.name, test.wantPanel, hit.Crosshair.Panel)
		}
		if hit.Crosshair.X != hit.Candle.X {
			t.Errorf("%s: expected the crosshair on the candle centre", test.name)
		}
		if hit.Crosshair.Y != test.py {
			t.Errorf("%s: expected the crosshair at the pointer", test.name)
		}
	}

	hit, ok := plan.Lookup(160, 50)
	assert.True(t, ok)
	assert.Equal(t, hit.Title, "2025-01-02 00:00:00")
	assert.Equal(t, hit.Crosshair.Value, plan.Scales.Price.Invert(50))
	assert.NotNil(t, hit.Volume)
	assert.Equal(t, hit.Volume.Index, 1)
	assert.Equal(t, hit.Candle.Index, 1)

	hit, ok = plan.Lookup(10, 170)
	assert.True(t, ok)
	assert.Equal(t, hit.Crosshair.Value, plan.Scales.Volume.Invert(170))
	assert.Equal(t, hit.Kind, shared.Unknown)
}

func TestLookupSnap(t *testing.T) {
	plan := compute(t, threeRecords(), &Options{
		Width:     300,
		Height:    150,
		Crosshair: Crosshair{Color: "#999", Snap: true},
	})

	hit, ok := plan.Lookup(250, 10)
	assert.True(t, ok)
	assert.Equal(t, hit.Point.Index, 2)
	assert.Equal(t, hit.Crosshair.Panel, MainPanel)
	assert.Equal(t, hit.Crosshair.Value, float64(8))
	assert.Equal(t, hit.Crosshair.Y, plan.Scales.Price.Apply(8))
	assert.Nil(t, hit.Volume)
	assert.Equal(t, plan.Tooltip.Crosshair.Color, "#999")
}

func TestLookupTitles(t *testing.T) {
	records := threeRecords()

	plan := compute(t, records, &Options{Width: 300, Height: 150, HideTooltip: true})
	hit, ok := plan.Lookup(50, 50)
	assert.True(t, ok)
	assert.Equal(t, hit.Title, "")
	assert.False(t, plan.Tooltip.Enabled)

	plan = compute(t, records, &Options{
		Width:  300,
		Height: 150,
		TooltipTitle: func(pt shared.Point) string {
			if pt.Index == 1 {
				panic("boom")
			}
			return pt.Date.Format("Jan 2")
		},
	})

	hit, ok = plan.Lookup(50, 50)
	assert.True(t, ok)
	assert.Equal(t, hit.Title, "Jan 1")

	// A panicking title falls back to the default title.
	hit, ok = plan.Lookup(150, 50)
	assert.True(t, ok)
	assert.Equal(t, hit.Title, "2025-01-02 00:00:00")
}

func TestPanelString(t *testing.T) {
	assert.Equal(t, MainPanel.String(), "main")
	assert.Equal(t, VolumePanel.String(), "volume")
	assert.Equal(t, NoPanel.String(), "none")
}
