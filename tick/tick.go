package tick

import (
	"math"
	"time"

	"github.com/dnldd/candlechart/shared"
	"github.com/rs/zerolog"
)

// Tick represents a labeled axis mark.
type Tick struct {
	// Value is the tick in domain units.
	Value float64 `json:"value"`
	// Position is the pixel coordinate of the tick along its axis.
	Position float64 `json:"position"`
	Label    string  `json:"label"`
}

// Set represents planned tick values along with their default formatter.
type Set struct {
	Values []Value
	// At holds the domain coordinate of every value when it differs from the
	// value itself, as on ordinal axes.
	At      []float64
	Default func(Value) string
}

// coordinate returns the domain coordinate of the value at the provided index.
func (s *Set) coordinate(idx int) float64 {
	if s.At != nil {
		return s.At[idx]
	}

	return s.Values[idx].Value
}

// numberValues wraps the provided numbers as tick values.
func numberValues(values []float64) []Value {
	out := make([]Value, len(values))
	for idx := range values {
		out[idx] = Value{Value: values[idx]}
	}

	return out
}

// timeValues wraps the provided times as tick values.
func timeValues(times []time.Time) []Value {
	out := make([]Value, len(times))
	for idx := range times {
		out[idx] = Value{Value: shared.TimeKey(times[idx]), Time: times[idx], IsTime: true}
	}

	return out
}

// MinMax returns exactly two values, the provided bounds.
func MinMax(min, max float64) []float64 {
	return []float64{min, max}
}

// NumericSet plans the ticks of a numeric axis.
func NumericSet(min, max float64, count int, minMaxOnly bool) Set {
	if minMaxOnly {
		_, step := Numeric(min, max, count)
		return Set{
			Values:  numberValues(MinMax(min, max)),
			Default: NumberFormatter(decimals(step) + 1),
		}
	}

	values, step := Numeric(min, max, count)
	return Set{Values: numberValues(values), Default: NumberFormatter(decimals(step))}
}

// VolumeSet plans the ticks of a volume axis.
func VolumeSet(max float64, count int, minMaxOnly bool) Set {
	set := Set{Default: VolumeFormatter()}
	if minMaxOnly {
		set.Values = numberValues(MinMax(0, max))
		return set
	}

	values, _ := Numeric(0, max, count)
	set.Values = numberValues(values)

	return set
}

// TimeSet plans the ticks of a time axis over unix millisecond bounds.
func TimeSet(min, max float64, count int, minMaxOnly bool) Set {
	if minMaxOnly {
		span := time.Duration(max-min) * time.Millisecond
		return Set{
			Values:  timeValues([]time.Time{shared.KeyTime(min), shared.KeyTime(max)}),
			Default: DateFormatter(granularityOf(span)),
		}
	}

	times, granularity := Calendar(min, max, count)
	return Set{Values: timeValues(times), Default: DateFormatter(granularity)}
}

// OrdinalSet plans the ticks of an ordinal axis of n slots. The slot function
// returns the value formatters see for a slot index.
func OrdinalSet(min, max float64, n int, count int, minMaxOnly bool, slot func(idx int) Value) Set {
	set := Set{Default: SlotFormatter(), At: []float64{}}

	add := func(pos float64) {
		v := Value{Value: pos}
		if n > 0 {
			v = slot(clampIndex(int(math.Round(pos)), n))
		}
		set.Values = append(set.Values, v)
		set.At = append(set.At, pos)
	}

	if minMaxOnly {
		add(min)
		add(max)
		return set
	}

	if count < 1 {
		count = 1
	}
	step := (n + count - 1) / count
	for idx := 0; n > 0 && idx < n; idx += step {
		add(float64(idx))
	}

	return set
}

// clampIndex restricts the provided index to [0, n).
func clampIndex(idx int, n int) int {
	switch {
	case n <= 0 || idx < 0:
		return 0
	case idx >= n:
		return n - 1
	default:
		return idx
	}
}

// Build positions and labels the planned ticks.
func Build(set Set, position func(float64) float64, custom Formatter, logger *zerolog.Logger) []Tick {
	labels := Format(set.Values, custom, set.Default, logger)

	ticks := make([]Tick, len(set.Values))
	for idx := range set.Values {
		coord := set.coordinate(idx)
		ticks[idx] = Tick{
			Value:    coord,
			Position: position(coord),
			Label:    labels[idx],
		}
	}

	return ticks
}
