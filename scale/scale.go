package scale

import (
	"math"

	"github.com/dnldd/candlechart/domain"
	"github.com/dnldd/candlechart/shared"
)

// Linear represents a linear mapping between a domain and a pixel range.
type Linear struct {
	D0 float64 `json:"d0"`
	D1 float64 `json:"d1"`
	R0 float64 `json:"r0"`
	R1 float64 `json:"r1"`
}

// NewLinear initializes a linear scale mapping [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Apply maps the provided domain value to a pixel.
func (l Linear) Apply(v float64) float64 {
	if l.D1 == l.D0 {
		return (l.R0 + l.R1) / 2
	}

	scaled := (v - l.D0) * (l.R1 - l.R0)
	if math.IsInf(scaled, 0) || math.IsInf(l.D1-l.D0, 0) {
		// Halved terms keep domains near the float range finite.
		t := (v/2 - l.D0/2) / (l.D1/2 - l.D0/2)
		return l.R0 + t*(l.R1-l.R0)
	}

	return l.R0 + scaled/(l.D1-l.D0)
}

// Invert maps the provided pixel back to a domain value.
func (l Linear) Invert(px float64) float64 {
	if l.R1 == l.R0 {
		return (l.D0 + l.D1) / 2
	}

	if math.IsInf(l.D1-l.D0, 0) {
		t := (px - l.R0) / (l.R1 - l.R0)
		return l.D0*(1-t) + l.D1*t
	}

	return l.D0 + (px-l.R0)*(l.D1-l.D0)/(l.R1-l.R0)
}

// Clamp restricts the provided pixel to the scale's range.
func (l Linear) Clamp(px float64) float64 {
	lo, hi := math.Min(l.R0, l.R1), math.Max(l.R0, l.R1)
	return math.Max(lo, math.Min(hi, px))
}

// Panels represents the chart panels.
type Panels struct {
	Main   shared.Rect  `json:"main"`
	Volume *shared.Rect `json:"volume,omitempty"`
}

// SplitPanels divides the chart area into the main panel and, when shown, the
// volume panel below it. Both panels share the horizontal extent and stay
// within the padded area.
func SplitPanels(width, height float64, pad shared.Padding, showVolume bool, ratio float64) Panels {
	innerWidth := math.Max(0, width-pad.Left-pad.Right)

	if !showVolume {
		return Panels{
			Main: shared.Rect{
				X:      pad.Left,
				Y:      pad.Top,
				Width:  innerWidth,
				Height: math.Max(0, height-pad.Top-pad.Bottom),
			},
		}
	}

	split := height * (1 - ratio)
	split = math.Max(pad.Top, math.Min(split, height-pad.Bottom))
	main := shared.Rect{
		X:      pad.Left,
		Y:      pad.Top,
		Width:  innerWidth,
		Height: math.Max(0, split-pad.Top),
	}
	volume := shared.Rect{
		X:      pad.Left,
		Y:      split,
		Width:  innerWidth,
		Height: math.Max(0, height-pad.Bottom-split),
	}

	return Panels{Main: main, Volume: &volume}
}

// XScale represents the x scale shared by the chart panels.
type XScale struct {
	Linear
	// Slot is the pixel width available to a single candle.
	Slot float64 `json:"slot"`
}

// NewXScale initializes the x scale of the provided domain across the panel.
// The range is inset by half a slot so edge candles are not clipped. Slots are
// never narrower than an even share of the panel per candle.
func NewXScale(d *domain.Domain, panel shared.Rect) XScale {
	if d.XDegenerate {
		return XScale{
			Linear: NewLinear(d.XMin, d.XMax, panel.X, panel.Right()),
			Slot:   panel.Width,
		}
	}

	slots := d.XSpan()/d.MinGap + 1
	if d.SlotCount > 0 {
		slots = math.Min(slots, float64(d.SlotCount))
	}
	slot := panel.Width / slots

	return XScale{
		Linear: NewLinear(d.XMin, d.XMax, panel.X+slot/2, panel.Right()-slot/2),
		Slot:   slot,
	}
}

// NewPriceScale initializes the inverted price scale of the main panel.
func NewPriceScale(d *domain.Domain, main shared.Rect) Linear {
	return NewLinear(d.YMin, d.YMax, main.Bottom(), main.Y)
}

// NewVolumeScale initializes the inverted volume scale of the volume panel.
func NewVolumeScale(d *domain.Domain, volume shared.Rect) Linear {
	return NewLinear(0, d.VolMax, volume.Bottom(), volume.Y)
}

// Scales represents every scale of a chart.
type Scales struct {
	Panels Panels  `json:"panels"`
	X      XScale  `json:"x"`
	Price  Linear  `json:"price"`
	Volume *Linear `json:"volume,omitempty"`
}

// Build constructs the chart scales of the provided domain.
func Build(d *domain.Domain, width, height float64, pad shared.Padding, showVolume bool, ratio float64) Scales {
	panels := SplitPanels(width, height, pad, showVolume, ratio)

	scales := Scales{
		Panels: panels,
		X:      NewXScale(d, panels.Main),
		Price:  NewPriceScale(d, panels.Main),
	}

	if panels.Volume != nil {
		vol := NewVolumeScale(d, *panels.Volume)
		scales.Volume = &vol
	}

	return scales
}
