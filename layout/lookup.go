package layout

import (
	"github.com/dnldd/candlechart/geometry"
	"github.com/dnldd/candlechart/shared"
)

// Panel identifies the chart panel a pointer is over.
type Panel int

const (
	NoPanel Panel = iota
	MainPanel
	VolumePanel
)

// String stringifies the panel.
func (p Panel) String() string {
	switch p {
	case MainPanel:
		return "main"
	case VolumePanel:
		return "volume"
	default:
		return "none"
	}
}

// CrosshairPosition represents where the crosshair lines are drawn for a hit.
type CrosshairPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Panel is the panel the horizontal line is drawn in.
	Panel Panel `json:"panel"`
	// Value is the price or volume at Y, valid when Panel is set.
	Value float64 `json:"value"`
}

// Hit represents the result of a pointer lookup.
type Hit struct {
	Point  shared.Point        `json:"point"`
	Candle geometry.Candle     `json:"candle"`
	Volume *geometry.VolumeBar `json:"volume,omitempty"`
	Kind   shared.Kind         `json:"kind"`
	// Title is the tooltip title, empty when the tooltip is hidden.
	Title     string            `json:"title"`
	Crosshair CrosshairPosition `json:"crosshair"`
}

// Lookup resolves the candle nearest to the provided pointer coordinates. It
// returns false when the plan has no valid candles.
func (p *Plan) Lookup(px, py float64) (*Hit, bool) {
	if p.index == nil {
		return nil, false
	}

	pos, ok := p.index.Nearest(px)
	if !ok {
		return nil, false
	}

	pt := p.Points[pos]
	hit := &Hit{
		Point:  pt,
		Candle: p.Candles[pos],
		Kind:   pt.FetchKind(),
	}
	if p.Volumes != nil {
		bar := p.Volumes[pos]
		hit.Volume = &bar
	}
	if p.Tooltip.Enabled {
		hit.Title = p.titles[pos]
	}

	hit.Crosshair.X = hit.Candle.X
	hit.Crosshair.Y = py

	switch {
	case p.Tooltip.Crosshair.Snap:
		hit.Crosshair.Y = p.Scales.Price.Apply(pt.Close)
		hit.Crosshair.Panel = MainPanel
		hit.Crosshair.Value = pt.Close
	case p.MainPanel.ContainsY(py):
		hit.Crosshair.Panel = MainPanel
		hit.Crosshair.Value = p.Scales.Price.Invert(py)
	case p.VolumePanel != nil && p.Scales.Volume != nil && p.VolumePanel.ContainsY(py):
		hit.Crosshair.Panel = VolumePanel
		hit.Crosshair.Value = p.Scales.Volume.Invert(py)
	}

	return hit, true
}
