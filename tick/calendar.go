package tick

import (
	"time"

	"github.com/dnldd/candlechart/shared"
)

// Granularity represents the calendar unit of a time tick interval.
type Granularity int

const (
	Millisecond Granularity = iota
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

const (
	// maxYearStep bounds the year ladder.
	maxYearStep = 10000
	day         = 24 * time.Hour
)

// interval represents a calendar tick interval.
type interval struct {
	granularity Granularity
	n           int
	// shortest is the shortest duration the interval can span.
	shortest time.Duration
}

// intervals are the calendar intervals tried from finest to coarsest, before
// the year ladder.
var intervals = []interval{
	{Second, 1, time.Second},
	{Second, 5, 5 * time.Second},
	{Second, 15, 15 * time.Second},
	{Second, 30, 30 * time.Second},
	{Minute, 1, time.Minute},
	{Minute, 5, 5 * time.Minute},
	{Minute, 15, 15 * time.Minute},
	{Minute, 30, 30 * time.Minute},
	{Hour, 1, time.Hour},
	{Hour, 3, 3 * time.Hour},
	{Hour, 6, 6 * time.Hour},
	{Hour, 12, 12 * time.Hour},
	{Day, 1, day},
	{Day, 2, 2 * day},
	{Week, 1, 7 * day},
	{Month, 1, 28 * day},
	{Month, 3, 89 * day},
}

// yearInterval returns the year interval with the provided step.
func yearInterval(n int) interval {
	return interval{Year, n, time.Duration(n) * 365 * day}
}

// first returns the first interval boundary at or after the provided time.
func (iv interval) first(t time.Time) time.Time {
	var b time.Time
	switch iv.granularity {
	case Second:
		b = t.Truncate(time.Duration(iv.n) * time.Second)
	case Minute:
		b = t.Truncate(time.Duration(iv.n) * time.Minute)
	case Hour:
		b = t.Truncate(time.Duration(iv.n) * time.Hour)
	case Day:
		b = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		b = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		b = b.AddDate(0, 0, -((int(b.Weekday()) + 6) % 7))
	case Month:
		m := (int(t.Month())-1)/iv.n*iv.n + 1
		b = time.Date(t.Year(), time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		y := t.Year() / iv.n * iv.n
		b = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	for b.Before(t) {
		b = iv.next(b)
	}

	return b
}

// next returns the interval boundary after the provided boundary.
func (iv interval) next(b time.Time) time.Time {
	switch iv.granularity {
	case Second:
		return b.Add(time.Duration(iv.n) * time.Second)
	case Minute:
		return b.Add(time.Duration(iv.n) * time.Minute)
	case Hour:
		return b.Add(time.Duration(iv.n) * time.Hour)
	case Day:
		return b.AddDate(0, 0, iv.n)
	case Week:
		return b.AddDate(0, 0, 7*iv.n)
	case Month:
		return b.AddDate(0, iv.n, 0)
	default:
		return b.AddDate(iv.n, 0, 0)
	}
}

// boundaries returns the interval boundaries within [lo, hi], giving up once
// more than limit boundaries are found.
func (iv interval) boundaries(lo, hi time.Time, limit int) ([]time.Time, bool) {
	var out []time.Time
	for b := iv.first(lo); !b.After(hi); b = iv.next(b) {
		if len(out) == limit {
			return nil, false
		}
		out = append(out, b)
	}

	return out, true
}

// Calendar returns tick times aligned to calendar boundaries within the
// provided unix millisecond range, targeting the provided count, along with
// the granularity used. It never returns more than count+1 ticks. Ranges no
// calendar interval can tick fall back to uniform division.
func Calendar(min, max float64, count int) ([]time.Time, Granularity) {
	if count < 1 {
		count = 1
	}

	lo, hi := shared.KeyTime(min), shared.KeyTime(max)
	if !hi.After(lo) {
		return []time.Time{lo}, Day
	}

	span := hi.Sub(lo)
	limit := count + 1

	try := func(iv interval) ([]time.Time, bool) {
		// Skip intervals that cannot fit before walking them.
		if span/iv.shortest > time.Duration(limit) {
			return nil, false
		}
		times, ok := iv.boundaries(lo, hi, limit)
		if !ok || len(times) < 2 {
			return nil, false
		}
		return times, true
	}

	for _, iv := range intervals {
		if times, ok := try(iv); ok {
			return times, iv.granularity
		}
	}

	for n := 1; n <= maxYearStep; n = nextYearStep(n) {
		if times, ok := try(yearInterval(n)); ok {
			return times, Year
		}
	}

	values := Uniform(min, max, count)
	times := make([]time.Time, len(values))
	for idx := range values {
		times[idx] = shared.KeyTime(values[idx])
	}

	return times, granularityOf(span / time.Duration(count))
}

// nextYearStep returns the next step of the 1/2/5 year ladder.
func nextYearStep(n int) int {
	switch {
	case isPowerOfTen(n):
		return n * 2
	case isPowerOfTen(n / 2):
		return n / 2 * 5
	default:
		return n * 2
	}
}

// isPowerOfTen reports whether the provided number is a power of ten.
func isPowerOfTen(n int) bool {
	if n < 1 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}

	return n == 1
}

// granularityOf returns the granularity suited to ticks the provided
// duration apart.
func granularityOf(d time.Duration) Granularity {
	switch {
	case d < time.Second:
		return Millisecond
	case d < time.Minute:
		return Second
	case d < time.Hour:
		return Minute
	case d < day:
		return Hour
	case d < 28*day:
		return Day
	case d < 365*day:
		return Month
	default:
		return Year
	}
}
