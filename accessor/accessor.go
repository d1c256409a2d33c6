package accessor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/candlechart/shared"
)

const (
	dateField   = "date"
	openField   = "open"
	highField   = "high"
	lowField    = "low"
	closeField  = "close"
	volumeField = "volume"
)

// Accessors maps a record type onto the canonical OHLCV tuple. Any nil
// accessor falls back to reading the named field of a shared.Record.
type Accessors[T any] struct {
	// Date returns the x value of a record: a time.Time, a date string or a number.
	Date func(T) (any, error)
	// Open returns the open price of a record.
	Open func(T) (float64, error)
	// High returns the high price of a record.
	High func(T) (float64, error)
	// Low returns the low price of a record.
	Low func(T) (float64, error)
	// Close returns the close price of a record.
	Close func(T) (float64, error)
	// Volume returns the volume of a record, false when the record has none.
	Volume func(T) (float64, bool, error)
	// DateUnit is the unit of numeric dates. Numeric dates are treated as plain
	// numeric x values when unset.
	DateUnit shared.TimeUnit
}

// asRecord asserts the provided value as a record.
func asRecord(v any) (*shared.Record, error) {
	switch rec := v.(type) {
	case shared.Record:
		return &rec, nil
	case *shared.Record:
		if rec == nil {
			return nil, fmt.Errorf("nil record")
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("no accessor for record type %T", v)
	}
}

// recordValue returns a default accessor reading the provided record field.
func recordValue[T any](field func(*shared.Record) float64) func(T) (float64, error) {
	return func(v T) (float64, error) {
		rec, err := asRecord(v)
		if err != nil {
			return 0, err
		}
		return field(rec), nil
	}
}

// withDefaults returns a copy of the accessors with nil accessors replaced.
func (a Accessors[T]) withDefaults() Accessors[T] {
	if a.Date == nil {
		a.Date = func(v T) (any, error) {
			rec, err := asRecord(v)
			if err != nil {
				return nil, err
			}
			return rec.Date, nil
		}
	}
	if a.Open == nil {
		a.Open = recordValue[T](func(r *shared.Record) float64 { return r.Open })
	}
	if a.High == nil {
		a.High = recordValue[T](func(r *shared.Record) float64 { return r.High })
	}
	if a.Low == nil {
		a.Low = recordValue[T](func(r *shared.Record) float64 { return r.Low })
	}
	if a.Close == nil {
		a.Close = recordValue[T](func(r *shared.Record) float64 { return r.Close })
	}
	if a.Volume == nil {
		a.Volume = func(v T) (float64, bool, error) {
			rec, err := asRecord(v)
			if err != nil || rec.Volume == nil {
				// Volume is optional, records without it have none.
				return 0, false, nil
			}
			return *rec.Volume, true, nil
		}
	}

	return a
}

// RecordAccessors returns the accessors for shared.Record values.
func RecordAccessors() Accessors[shared.Record] {
	return Accessors[shared.Record]{}.withDefaults()
}

// callDate invokes the date accessor, recovering from panics.
func callDate[T any](fn func(T) (any, error), rec T) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("accessor panicked: %v", r)
		}
	}()

	return fn(rec)
}

// callValue invokes a price accessor, recovering from panics.
func callValue[T any](fn func(T) (float64, error), rec T) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("accessor panicked: %v", r)
		}
	}()

	return fn(rec)
}

// callVolume invokes the volume accessor, recovering from panics.
func callVolume[T any](fn func(T) (float64, bool, error), rec T) (v float64, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("accessor panicked: %v", r)
		}
	}()

	return fn(rec)
}

// toFloat converts the provided numeric value to a float.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateKey resolves the provided date value into a date and domain key.
func dateKey(v any, unit shared.TimeUnit) (time.Time, bool, float64, error) {
	switch dt := v.(type) {
	case nil:
		return time.Time{}, false, 0, fmt.Errorf("missing date")
	case time.Time:
		if dt.IsZero() {
			return time.Time{}, false, 0, fmt.Errorf("zero date")
		}
		dt = dt.UTC()
		return dt, true, shared.TimeKey(dt), nil
	case *time.Time:
		if dt == nil {
			return time.Time{}, false, 0, fmt.Errorf("missing date")
		}
		return dateKey(*dt, unit)
	case string:
		parsed, err := shared.ParseDate(dt)
		if err == nil {
			return parsed, true, shared.TimeKey(parsed), nil
		}
		// Numeric strings are numeric x values or timestamps.
		f, numErr := strconv.ParseFloat(strings.TrimSpace(dt), 64)
		if numErr != nil {
			return time.Time{}, false, 0, err
		}
		return dateKey(f, unit)
	}

	f, ok := toFloat(v)
	if !ok {
		return time.Time{}, false, 0, fmt.Errorf("unsupported date type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false, 0, fmt.Errorf("non-finite date %v", f)
	}
	if unit == shared.NoUnit {
		return time.Time{}, false, f, nil
	}

	dt := unit.FromUnix(f)
	return dt, true, shared.TimeKey(dt), nil
}

// finite asserts the provided value is a finite number.
func finite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite value %v", v)
	}

	return nil
}

// resolvePoint resolves a single record.
func resolvePoint[T any](idx int, rec T, acc *Accessors[T]) shared.Point {
	pt := shared.Point{Index: idx}

	invalidate := func(field string, reason string, err error) shared.Point {
		pt.Valid = false
		pt.Issue = &shared.PointError{Index: idx, Field: field, Reason: reason, Err: err}
		return pt
	}

	raw, err := callDate(acc.Date, rec)
	if err != nil {
		return invalidate(dateField, "accessor failed", err)
	}
	date, hasDate, key, err := dateKey(raw, acc.DateUnit)
	if err != nil {
		return invalidate(dateField, "unresolvable date", err)
	}
	pt.Date = date
	pt.HasDate = hasDate
	pt.Key = key
	pt.HasKey = true

	prices := []struct {
		field string
		fn    func(T) (float64, error)
		dst   *float64
	}{
		{openField, acc.Open, &pt.Open},
		{highField, acc.High, &pt.High},
		{lowField, acc.Low, &pt.Low},
		{closeField, acc.Close, &pt.Close},
	}
	for _, price := range prices {
		v, err := callValue(price.fn, rec)
		if err != nil {
			return invalidate(price.field, "accessor failed", err)
		}
		if err := finite(v); err != nil {
			return invalidate(price.field, "invalid value", err)
		}
		*price.dst = v
	}

	vol, ok, err := callVolume(acc.Volume, rec)
	if err != nil {
		return invalidate(volumeField, "accessor failed", err)
	}
	if ok && finite(vol) == nil && vol >= 0 {
		pt.Volume = vol
		pt.HasVolume = true
	}

	switch {
	case pt.High < pt.Low:
		return invalidate("", fmt.Sprintf("high %v below low %v", pt.High, pt.Low), nil)
	case pt.Open < pt.Low || pt.Open > pt.High:
		return invalidate("", fmt.Sprintf("open %v outside [%v, %v]", pt.Open, pt.Low, pt.High), nil)
	case pt.Close < pt.Low || pt.Close > pt.High:
		return invalidate("", fmt.Sprintf("close %v outside [%v, %v]", pt.Close, pt.Low, pt.High), nil)
	}

	pt.Valid = true

	return pt
}

// Resolve normalizes the provided records into points, one per record in
// input order. Records that fail resolution are returned invalid with their
// index preserved.
func Resolve[T any](records []T, acc Accessors[T]) []shared.Point {
	acc = acc.withDefaults()

	points := make([]shared.Point, len(records))
	for idx := range records {
		points[idx] = resolvePoint(idx, records[idx], &acc)
	}

	return points
}
