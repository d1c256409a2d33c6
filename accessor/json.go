package accessor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dnldd/candlechart/shared"
	"github.com/tidwall/gjson"
)

// JSONPaths represents the gjson paths of the OHLCV fields in a JSON record.
type JSONPaths struct {
	Date   string `yaml:"date"`
	Open   string `yaml:"open"`
	High   string `yaml:"high"`
	Low    string `yaml:"low"`
	Close  string `yaml:"close"`
	Volume string `yaml:"volume"`
	// DateUnit is the unit of numeric dates.
	DateUnit shared.TimeUnit `yaml:"-"`
}

// DefaultJSONPaths returns the paths of records keyed by their field names.
func DefaultJSONPaths() JSONPaths {
	return JSONPaths{
		Date:   dateField,
		Open:   openField,
		High:   highField,
		Low:    lowField,
		Close:  closeField,
		Volume: volumeField,
	}
}

// withDefaults fills empty paths with the default field names.
func (p JSONPaths) withDefaults() JSONPaths {
	def := DefaultJSONPaths()
	if p.Date == "" {
		p.Date = def.Date
	}
	if p.Open == "" {
		p.Open = def.Open
	}
	if p.High == "" {
		p.High = def.High
	}
	if p.Low == "" {
		p.Low = def.Low
	}
	if p.Close == "" {
		p.Close = def.Close
	}
	if p.Volume == "" {
		p.Volume = def.Volume
	}

	return p
}

// jsonNumber reads the number at the provided path. Numeric strings are accepted.
func jsonNumber(rec gjson.Result, path string) (float64, error) {
	v := rec.Get(path)
	switch v.Type {
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("parsing '%s' at path '%s': %w", v.Str, path, err)
		}
		return f, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("no value at path '%s'", path)
		}
		return 0, fmt.Errorf("null value at path '%s'", path)
	default:
		return 0, fmt.Errorf("unexpected %s value at path '%s'", v.Type.String(), path)
	}
}

// JSONAccessors returns accessors reading the provided gjson paths. Array
// records can be addressed by position, e.g. "0" for the first element.
func JSONAccessors(paths JSONPaths) Accessors[gjson.Result] {
	paths = paths.withDefaults()

	return Accessors[gjson.Result]{
		Date: func(rec gjson.Result) (any, error) {
			v := rec.Get(paths.Date)
			switch v.Type {
			case gjson.Number:
				return v.Float(), nil
			case gjson.String:
				return v.Str, nil
			default:
				return nil, fmt.Errorf("no date at path '%s'", paths.Date)
			}
		},
		Open: func(rec gjson.Result) (float64, error) {
			return jsonNumber(rec, paths.Open)
		},
		High: func(rec gjson.Result) (float64, error) {
			return jsonNumber(rec, paths.High)
		},
		Low: func(rec gjson.Result) (float64, error) {
			return jsonNumber(rec, paths.Low)
		},
		Close: func(rec gjson.Result) (float64, error) {
			return jsonNumber(rec, paths.Close)
		},
		Volume: func(rec gjson.Result) (float64, bool, error) {
			v := rec.Get(paths.Volume)
			if !v.Exists() || v.Type == gjson.Null {
				return 0, false, nil
			}
			f, err := jsonNumber(rec, paths.Volume)
			if err != nil {
				return 0, false, err
			}
			return f, true, nil
		},
		DateUnit: paths.DateUnit,
	}
}
