package shared

import (
	"math"
	"time"
)

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Bullish Sentiment = iota
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "unknown"
	}
}

// Kind represents type of candlestick.
type Kind int

const (
	Marubozu Kind = iota
	Pinbar
	Doji
	Unknown
)

// String stringifies the provided kind.
func (k Kind) String() string {
	switch k {
	case Marubozu:
		return "marubozu"
	case Pinbar:
		return "pinbar"
	case Doji:
		return "doji"
	default:
		return "unknown"
	}
}

// Record represents a raw OHLC record with optional volume. It is the default
// record type understood by the accessor resolver.
type Record struct {
	// Date is the x value of the record: a time.Time, a date string or a number.
	Date   any      `json:"date" yaml:"date"`
	Open   float64  `json:"open" yaml:"open"`
	High   float64  `json:"high" yaml:"high"`
	Low    float64  `json:"low" yaml:"low"`
	Close  float64  `json:"close" yaml:"close"`
	Volume *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// Point represents a resolved record in canonical form. Points are never
// mutated once the resolver hands them out.
type Point struct {
	// Index is the position of the source record.
	Index int `json:"index"`
	// Date is the parsed record date, zero for numeric or unresolved x values.
	Date time.Time `json:"date"`
	// HasDate reports whether Date was resolved.
	HasDate bool `json:"hasDate"`
	// Key is the x value in domain units: unix milliseconds for dates, the raw
	// value for numeric x values and the index for ordinal domains.
	Key float64 `json:"key"`
	// HasKey reports whether the record itself provided the key.
	HasKey bool `json:"hasKey"`

	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	HasVolume bool    `json:"hasVolume"`

	// Valid reports whether the point takes part in domain and geometry math.
	Valid bool `json:"valid"`
	// Issue describes why the point is invalid.
	Issue error `json:"-"`
}

// FetchSentiment returns the provided point's sentiment. A close equal to the
// open is bullish.
func (p *Point) FetchSentiment() Sentiment {
	if p.Close >= p.Open {
		return Bullish
	}

	return Bearish
}

// Candle shape thresholds, as shares of the high-low range.
const (
	smallBodyShare = 0.3
	largeBodyShare = 0.7
	longWickShare  = 0.6
	evenWickShare  = 0.3
)

// FetchKind classifies the point's candle shape from the shares of its range
// taken by the body and each wick. Points without a range are unknown.
func (p *Point) FetchKind() Kind {
	span := p.High - p.Low
	if !(span > 0) {
		return Unknown
	}

	body := (p.BodyHigh() - p.BodyLow()) / span
	upper := (p.High - p.BodyHigh()) / span
	lower := (p.BodyLow() - p.Low) / span

	if body >= largeBodyShare {
		return Marubozu
	}
	if body > smallBodyShare {
		return Unknown
	}

	switch {
	case math.Max(upper, lower) >= longWickShare:
		return Pinbar
	case math.Min(upper, lower) >= evenWickShare:
		return Doji
	default:
		return Unknown
	}
}

// BodyHigh returns the upper bound of the candle body.
func (p *Point) BodyHigh() float64 {
	return math.Max(p.Open, p.Close)
}

// BodyLow returns the lower bound of the candle body.
func (p *Point) BodyLow() float64 {
	return math.Min(p.Open, p.Close)
}
