package source

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dnldd/candlechart/shared"
)

const (
	// Record table columns.
	dateColumn   = "date"
	openColumn   = "open"
	highColumn   = "high"
	lowColumn    = "low"
	closeColumn  = "close"
	volumeColumn = "volume"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RecordFetcher defines the requirements for fetching chart records.
type RecordFetcher interface {
	// FetchRecords returns the records of the provided table in storage order.
	FetchRecords(ctx context.Context, table string) ([]shared.Record, error)
}

// selectRecordsSQL returns the records query of the provided table.
func selectRecordsSQL(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name '%s'", table)
	}

	return fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s ORDER BY rowid",
		dateColumn, openColumn, highColumn, lowColumn, closeColumn, volumeColumn, table), nil
}

// number converts a column value to a float. Unconvertible values are NaN so
// the resolver turns the row into a gap.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case []byte:
		return number(string(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return math.NaN(), false
	}
}

// dateValue normalizes a date column value.
func dateValue(v any) any {
	switch d := v.(type) {
	case []byte:
		return string(d)
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return d.String()
		}
		return f
	default:
		return d
	}
}

// newRecord builds a record from raw column values. It reports the columns
// that could not be converted.
func newRecord(date, open, high, low, close, volume any) (shared.Record, []string) {
	rec := shared.Record{Date: dateValue(date)}

	var bad []string
	prices := []struct {
		column string
		v      any
		dst    *float64
	}{
		{openColumn, open, &rec.Open},
		{highColumn, high, &rec.High},
		{lowColumn, low, &rec.Low},
		{closeColumn, close, &rec.Close},
	}
	for _, price := range prices {
		f, ok := number(price.v)
		if !ok {
			f = math.NaN()
			bad = append(bad, price.column)
		}
		*price.dst = f
	}

	if volume != nil {
		f, ok := number(volume)
		if ok {
			rec.Volume = &f
		} else {
			bad = append(bad, volumeColumn)
		}
	}

	return rec, bad
}
