package shared

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the format layout for parsing dates.
	DateLayout = "2006-01-02 15:04:05"
	// DayLayout is the format layout for parsing calendar days.
	DayLayout = "2006-01-02"
)

// dateLayouts are the layouts date strings are parsed against, in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayout,
	"2006-01-02T15:04:05",
	DayLayout,
}

// TimeUnit represents the unit of numeric timestamps.
type TimeUnit int

const (
	// NoUnit treats numbers as plain numeric x values.
	NoUnit TimeUnit = iota
	Seconds
	Milliseconds
)

// String stringifies the provided time unit.
func (u TimeUnit) String() string {
	switch u {
	case Seconds:
		return "s"
	case Milliseconds:
		return "ms"
	default:
		return "none"
	}
}

// ParseTimeUnit parses the provided time unit string.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoUnit, nil
	case "s", "sec", "seconds":
		return Seconds, nil
	case "ms", "millis", "milliseconds":
		return Milliseconds, nil
	default:
		return NoUnit, fmt.Errorf("unknown time unit provided: %s", s)
	}
}

// FromUnix converts the provided timestamp in the unit to a UTC time.
func (u TimeUnit) FromUnix(v float64) time.Time {
	switch u {
	case Milliseconds:
		return time.UnixMilli(int64(v)).UTC()
	default:
		sec := int64(v)
		nsec := int64((v - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC()
	}
}

// ParseDate parses the provided date string against the known layouts. Dates
// without zone information are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		dt, err := time.Parse(layout, s)
		if err == nil {
			return dt.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparsable date '%s'", s)
}

// TimeKey returns the domain key of the provided time.
func TimeKey(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// KeyTime returns the time of the provided domain key.
func KeyTime(key float64) time.Time {
	return time.UnixMilli(int64(key)).UTC()
}
