package tick

import (
	"fmt"
	"strings"
	"time"

	"github.com/dnldd/candlechart/shared"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Value represents a tick value handed to formatters.
type Value struct {
	// Value is the tick in domain units.
	Value float64
	// Time is the tick time for time axes and dated ordinal slots.
	Time time.Time
	// IsTime reports whether Time is set.
	IsTime bool
}

// Formatter formats the provided tick value at the provided tick index.
type Formatter func(tick Value, index int) (string, error)

// NumberFormatter returns the default formatter for numeric ticks printed
// with the provided number of decimals.
func NumberFormatter(decimals int) func(Value) string {
	return func(v Value) string {
		return humanize.CommafWithDigits(v.Value, decimals)
	}
}

// VolumeFormatter returns the default formatter for volume ticks.
func VolumeFormatter() func(Value) string {
	return func(v Value) string {
		if v.Value == 0 {
			return "0"
		}
		return strings.TrimSpace(humanize.SIWithDigits(v.Value, 1, ""))
	}
}

// layout returns the date layout suited to the provided granularity.
func layout(g Granularity) string {
	switch g {
	case Millisecond:
		return "15:04:05.000"
	case Second:
		return "15:04:05"
	case Minute:
		return "15:04"
	case Hour:
		return "Jan 02 15:04"
	case Day, Week:
		return "Jan 02"
	case Month:
		return "Jan 2006"
	default:
		return "2006"
	}
}

// DateFormatter returns the default formatter for time ticks of the provided
// granularity.
func DateFormatter(g Granularity) func(Value) string {
	l := layout(g)
	return func(v Value) string {
		t := v.Time
		if !v.IsTime {
			t = shared.KeyTime(v.Value)
		}
		return t.UTC().Format(l)
	}
}

// SlotFormatter returns the default formatter for ordinal slots: dated slots
// print their date, others print their value.
func SlotFormatter() func(Value) string {
	number := NumberFormatter(maxDecimals)
	return func(v Value) string {
		if !v.IsTime {
			return number(v)
		}
		t := v.Time.UTC()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(shared.DayLayout)
		}
		return t.Format("2006-01-02 15:04")
	}
}

// safeFormat invokes the provided formatter, recovering from panics.
func safeFormat(f Formatter, v Value, idx int) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panicked: %v", shared.ErrFormatter, r)
		}
	}()

	label, err = f(v, idx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrFormatter, err)
	}

	return label, nil
}

// Format labels the provided tick values. Values the custom formatter fails
// on fall back to the default formatter.
func Format(values []Value, custom Formatter, def func(Value) string, logger *zerolog.Logger) []string {
	labels := make([]string, len(values))
	for idx := range values {
		if custom != nil {
			label, err := safeFormat(custom, values[idx], idx)
			if err == nil {
				labels[idx] = label
				continue
			}
			if logger != nil {
				logger.Debug().Err(err).Msgf("falling back to the default formatter for tick %d", idx)
			}
		}

		labels[idx] = def(values[idx])
	}

	return labels
}
