package geometry

import (
	"github.com/dnldd/candlechart/scale"
	"github.com/dnldd/candlechart/shared"
)

// Style represents the candle styling applied by the geometry builder. Colors
// are opaque tokens handed to the renderer.
type Style struct {
	BullishColor string `json:"bullishColor"`
	BearishColor string `json:"bearishColor"`
	// CandleWidth is the fraction of the x slot a candle occupies.
	CandleWidth float64 `json:"candleWidth"`
}

// color returns the color token for the provided sentiment.
func (s *Style) color(sentiment shared.Sentiment) string {
	if sentiment == shared.Bullish {
		return s.BullishColor
	}

	return s.BearishColor
}

// Candle represents the pixel geometry of a candlestick.
type Candle struct {
	Index int `json:"index"`
	// X is the pixel x of the candle centre.
	X          float64 `json:"x"`
	Width      float64 `json:"width"`
	BodyTop    float64 `json:"bodyTop"`
	BodyBottom float64 `json:"bodyBottom"`
	WickTop    float64 `json:"wickTop"`
	WickBottom float64 `json:"wickBottom"`
	Bullish    bool    `json:"bullish"`
	// Valid is false for gap slots, which have no height.
	Valid bool   `json:"valid"`
	Color string `json:"color,omitempty"`
}

// Left returns the left edge of the candle body.
func (c *Candle) Left() float64 {
	return c.X - c.Width/2
}

// BodyHeight returns the height of the candle body.
func (c *Candle) BodyHeight() float64 {
	return c.BodyBottom - c.BodyTop
}

// VolumeBar represents the pixel geometry of a volume bar.
type VolumeBar struct {
	Index   int     `json:"index"`
	X       float64 `json:"x"`
	Width   float64 `json:"width"`
	Top     float64 `json:"top"`
	Bottom  float64 `json:"bottom"`
	Bullish bool    `json:"bullish"`
	Color   string  `json:"color,omitempty"`
}

// Height returns the height of the volume bar.
func (b *VolumeBar) Height() float64 {
	return b.Bottom - b.Top
}

// Candles builds the candle geometry of every point. Invalid points become
// zero height gap candles at their slot.
func Candles(points []shared.Point, keys []float64, x scale.XScale, price scale.Linear, style Style) []Candle {
	width := x.Slot * style.CandleWidth
	floor := price.R0

	candles := make([]Candle, len(points))
	for idx := range points {
		pt := &points[idx]
		candle := Candle{
			Index: pt.Index,
			X:     x.Apply(keys[idx]),
			Width: width,
		}

		if !pt.Valid {
			candle.BodyTop, candle.BodyBottom = floor, floor
			candle.WickTop, candle.WickBottom = floor, floor
			candles[idx] = candle
			continue
		}

		sentiment := pt.FetchSentiment()
		candle.BodyTop = price.Apply(pt.BodyHigh())
		candle.BodyBottom = price.Apply(pt.BodyLow())
		candle.WickTop = price.Apply(pt.High)
		candle.WickBottom = price.Apply(pt.Low)
		candle.Bullish = sentiment == shared.Bullish
		candle.Valid = true
		candle.Color = style.color(sentiment)

		candles[idx] = candle
	}

	return candles
}

// Volumes builds the volume bar of every point. Invalid points and points
// without volume get zero height bars so bars stay aligned with candles.
func Volumes(points []shared.Point, keys []float64, x scale.XScale, volume scale.Linear, style Style) []VolumeBar {
	width := x.Slot * style.CandleWidth
	base := volume.Apply(0)

	bars := make([]VolumeBar, len(points))
	for idx := range points {
		pt := &points[idx]
		bar := VolumeBar{
			Index:  pt.Index,
			X:      x.Apply(keys[idx]),
			Width:  width,
			Top:    base,
			Bottom: base,
		}

		if pt.Valid {
			sentiment := pt.FetchSentiment()
			bar.Bullish = sentiment == shared.Bullish
			bar.Color = style.color(sentiment)
			if pt.HasVolume {
				bar.Top = volume.Apply(pt.Volume)
			}
		}

		bars[idx] = bar
	}

	return bars
}
