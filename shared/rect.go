package shared

// Padding represents the spacing between the chart edges and its panels.
type Padding struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Rect represents a rectangular chart region in pixels. Y grows downwards.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge of the rect.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the bottom edge of the rect.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// ContainsY reports whether the provided y coordinate falls within the rect.
func (r Rect) ContainsY(y float64) bool {
	return y >= r.Y && y <= r.Bottom()
}

// Overlaps reports whether the rect vertically overlaps the provided rect.
// Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}
