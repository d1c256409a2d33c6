package domain

import (
	"math"

	"github.com/dnldd/candlechart/shared"
)

const (
	// DefaultMargin is the fraction of the price span added above and below it.
	DefaultMargin = 0.05
	// windowFraction is the half-width of a zero span price window relative to its value.
	windowFraction = 0.05
	// dayMillis is the width of a degenerate time window.
	dayMillis = float64(24 * 60 * 60 * 1000)
)

// XKind represents the kind of x domain.
type XKind int

const (
	// Time domains key points by unix milliseconds.
	Time XKind = iota
	// Numeric domains key points by their raw numeric x value.
	Numeric
	// Ordinal domains key points by their record index.
	Ordinal
)

// String stringifies the provided x kind.
func (k XKind) String() string {
	switch k {
	case Time:
		return "time"
	case Numeric:
		return "numeric"
	case Ordinal:
		return "ordinal"
	default:
		return "unknown"
	}
}

// Domain represents the data ranges of a chart before scaling.
type Domain struct {
	XKind XKind   `json:"xKind"`
	XMin  float64 `json:"xMin"`
	XMax  float64 `json:"xMax"`
	// MinGap is the smallest positive distance between consecutive x keys.
	MinGap float64 `json:"minGap"`
	YMin   float64 `json:"yMin"`
	YMax   float64 `json:"yMax"`
	VolMax float64 `json:"volMax"`

	// XDegenerate reports whether the x domain fell back to a synthetic window.
	XDegenerate bool `json:"xDegenerate"`
	// YDegenerate reports whether the price domain fell back to a synthetic window.
	YDegenerate bool `json:"yDegenerate"`
	// VolDegenerate reports whether no positive volume was found.
	VolDegenerate bool `json:"volDegenerate"`
	// ValidCount is the number of points that took part in the calculation.
	ValidCount int `json:"validCount"`
	// SlotCount is the number of x slots, one per point.
	SlotCount int `json:"slotCount"`
}

// XSpan returns the width of the x domain.
func (d *Domain) XSpan() float64 {
	return d.XMax - d.XMin
}

// unit returns the width of a degenerate x window for the provided kind.
func unit(kind XKind) float64 {
	if kind == Time {
		return dayMillis
	}

	return 1
}

// Calculate computes the domain of the provided points and the x key of every
// slot. Keys follow the point order; invalid points receive keys derived from
// their valid neighbours so they keep their slot.
func Calculate(points []shared.Point, margin float64) (Domain, []float64) {
	var d Domain

	valid := make([]int, 0, len(points))
	for idx := range points {
		if points[idx].Valid {
			valid = append(valid, idx)
		}
	}
	d.ValidCount = len(valid)

	d.XKind = xKind(points, valid)
	keys := slotKeys(points, valid, d.XKind)
	calculateX(&d, keys)
	calculateY(&d, points, valid, margin)
	calculateVolume(&d, points, valid)

	return d, keys
}

// xKind determines the x domain kind of the provided points.
func xKind(points []shared.Point, valid []int) XKind {
	if len(valid) == 0 {
		return Ordinal
	}

	allDates := true
	allNumeric := true
	for _, idx := range valid {
		if points[idx].HasDate {
			allNumeric = false
		} else {
			allDates = false
		}
	}

	if !allDates && !allNumeric {
		return Ordinal
	}

	// Dates that are not strictly increasing render in input order.
	for i := 1; i < len(valid); i++ {
		if points[valid[i]].Key <= points[valid[i-1]].Key {
			return Ordinal
		}
	}

	if allDates {
		return Time
	}

	return Numeric
}

// slotKeys returns the x key of every slot.
func slotKeys(points []shared.Point, valid []int, kind XKind) []float64 {
	keys := make([]float64, len(points))

	if kind == Ordinal {
		for idx := range keys {
			keys[idx] = float64(idx)
		}
		return keys
	}

	for _, idx := range valid {
		keys[idx] = points[idx].Key
	}

	first, last := valid[0], valid[len(valid)-1]
	step := unit(kind)
	if last > first {
		step = (points[last].Key - points[first].Key) / float64(last-first)
	}

	for idx := 0; idx < first; idx++ {
		keys[idx] = keys[first] - step*float64(first-idx)
	}
	for idx := last + 1; idx < len(keys); idx++ {
		keys[idx] = keys[last] + step*float64(idx-last)
	}

	// Interpolate the gaps between consecutive valid points.
	for i := 1; i < len(valid); i++ {
		prev, next := valid[i-1], valid[i]
		for idx := prev + 1; idx < next; idx++ {
			keys[idx] = keys[prev] + (keys[next]-keys[prev])*float64(idx-prev)/float64(next-prev)
		}
	}

	return keys
}

// calculateX computes the x range of the provided slot keys.
func calculateX(d *Domain, keys []float64) {
	u := unit(d.XKind)
	d.SlotCount = len(keys)

	if len(keys) == 0 {
		d.XMin, d.XMax = -u/2, u/2
		d.MinGap = u
		d.XDegenerate = true
		return
	}

	d.XMin, d.XMax = keys[0], keys[len(keys)-1]
	d.MinGap = math.Inf(1)
	for idx := 1; idx < len(keys); idx++ {
		gap := keys[idx] - keys[idx-1]
		if gap > 0 && gap < d.MinGap {
			d.MinGap = gap
		}
	}

	if d.XMax <= d.XMin || math.IsInf(d.MinGap, 1) {
		center := keys[0]
		d.XMin, d.XMax = center-u/2, center+u/2
		d.MinGap = u
		d.XDegenerate = true
	}
}

// calculateY computes the margin expanded price range of the valid points.
func calculateY(d *Domain, points []shared.Point, valid []int, margin float64) {
	if len(valid) == 0 {
		d.YMin, d.YMax = 0, 1
		d.YDegenerate = true
		return
	}

	low, high := math.Inf(1), math.Inf(-1)
	for _, idx := range valid {
		low = math.Min(low, points[idx].Low)
		high = math.Max(high, points[idx].High)
	}

	span := high - low
	if span == 0 {
		half := math.Abs(low) * windowFraction
		if half == 0 {
			half = 0.5
		}
		d.YMin, d.YMax = low-half, high+half
		switch {
		case math.IsInf(d.YMax, 1):
			d.YMin, d.YMax = low-2*half, high
		case math.IsInf(d.YMin, -1):
			d.YMin, d.YMax = low, high+2*half
		}
		d.YDegenerate = true
		return
	}

	d.YMin = low - span*margin
	d.YMax = high + span*margin

	// Spans beyond the float range keep the unexpanded window.
	if math.IsInf(d.YMin, 0) || math.IsInf(d.YMax, 0) {
		d.YMin, d.YMax = low, high
		d.YDegenerate = true
	}
}

// calculateVolume computes the volume maximum of the valid points.
func calculateVolume(d *Domain, points []shared.Point, valid []int) {
	for _, idx := range valid {
		if points[idx].HasVolume {
			d.VolMax = math.Max(d.VolMax, points[idx].Volume)
		}
	}

	if d.VolMax <= 0 {
		d.VolMax = 1
		d.VolDegenerate = true
	}
}
