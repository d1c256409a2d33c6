package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/candlechart/domain"
	"github.com/dnldd/candlechart/shared"
	"github.com/dnldd/candlechart/tick"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBullishColor is the color token of bullish candles.
	DefaultBullishColor = "#10B981"
	// DefaultBearishColor is the color token of bearish candles.
	DefaultBearishColor = "#EF4444"
	// DefaultCandleWidth is the default fraction of a slot a candle occupies.
	DefaultCandleWidth = 0.8
	// DefaultNumTicks is the default target tick count of an axis.
	DefaultNumTicks = 10
	// DefaultVolumeHeightRatio is the default share of the chart height
	// given to the volume panel.
	DefaultVolumeHeightRatio = 0.3
	// DefaultPadding is the default padding on every side of the chart.
	DefaultPadding = 5
)

// Crosshair represents the crosshair configuration handed to the renderer.
type Crosshair struct {
	Color       string  `yaml:"color" json:"color,omitempty"`
	StrokeWidth float64 `yaml:"strokeWidth" json:"strokeWidth,omitempty"`
	Dashed      bool    `yaml:"dashed" json:"dashed"`
	// Snap pins the horizontal crosshair line to the close of the hovered candle.
	Snap bool `yaml:"snap" json:"snap"`
}

// Options represents the chart configuration. Pointer fields are options
// whose default is not the zero value; nil selects the default.
type Options struct {
	Width   float64         `yaml:"width"`
	Height  float64         `yaml:"height"`
	Padding *shared.Padding `yaml:"padding"`

	BullishColor string   `yaml:"bullishColor"`
	BearishColor string   `yaml:"bearishColor"`
	CandleWidth  *float64 `yaml:"candleWidth"`

	HideTooltip bool      `yaml:"hideTooltip"`
	Crosshair   Crosshair `yaml:"crosshair"`
	// TooltipTitle returns the tooltip title of a hovered point. The date or
	// key of the point is used when nil.
	TooltipTitle func(pt shared.Point) string `yaml:"-"`

	HideXAxis bool   `yaml:"hideXAxis"`
	HideYAxis bool   `yaml:"hideYAxis"`
	XLabel    string `yaml:"xLabel"`
	YLabel    string `yaml:"yLabel"`

	XFormatter      tick.Formatter `yaml:"-"`
	YFormatter      tick.Formatter `yaml:"-"`
	VolumeFormatter tick.Formatter `yaml:"-"`

	XNumTicks       *int  `yaml:"xNumTicks"`
	YNumTicks       *int  `yaml:"yNumTicks"`
	XGridLine       bool  `yaml:"xGridLine"`
	YGridLine       *bool `yaml:"yGridLine"`
	XDomainLine     *bool `yaml:"xDomainLine"`
	YDomainLine     *bool `yaml:"yDomainLine"`
	XTickLine       *bool `yaml:"xTickLine"`
	YTickLine       *bool `yaml:"yTickLine"`
	MinMaxTicksOnly bool  `yaml:"minMaxTicksOnly"`

	ShowVolume        bool     `yaml:"showVolume"`
	VolumeHeightRatio *float64 `yaml:"volumeHeightRatio"`
	// DomainMargin is the fraction the price domain is expanded by on both ends.
	DomainMargin *float64 `yaml:"domainMargin"`

	Logger *zerolog.Logger `yaml:"-"`
}

// Bool returns a pointer to the provided value.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to the provided value.
func Int(v int) *int { return &v }

// Float returns a pointer to the provided value.
func Float(v float64) *float64 { return &v }

// ParseOptions decodes YAML chart options.
func ParseOptions(data []byte) (*Options, error) {
	var opts Options
	err := yaml.Unmarshal(data, &opts)
	if err != nil {
		return nil, fmt.Errorf("decoding chart options: %w", err)
	}

	return &opts, nil
}

// settings represents options with every default applied.
type settings struct {
	width, height     float64
	padding           shared.Padding
	bullishColor      string
	bearishColor      string
	candleWidth       float64
	hideTooltip       bool
	crosshair         Crosshair
	tooltipTitle      func(pt shared.Point) string
	hideXAxis         bool
	hideYAxis         bool
	xLabel, yLabel    string
	xFormatter        tick.Formatter
	yFormatter        tick.Formatter
	volumeFormatter   tick.Formatter
	xNumTicks         int
	yNumTicks         int
	xGridLine         bool
	yGridLine         bool
	xDomainLine       bool
	yDomainLine       bool
	xTickLine         bool
	yTickLine         bool
	minMaxTicksOnly   bool
	showVolume        bool
	volumeHeightRatio float64
	domainMargin      float64
	logger            *zerolog.Logger
}

func orBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func orInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func orFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orString(v string, def string) string {
	if v == "" {
		return def
	}
	return v
}

// resolve merges the options with their defaults.
func (o *Options) resolve() settings {
	s := settings{
		width:             o.Width,
		height:            o.Height,
		padding:           shared.Padding{Top: DefaultPadding, Right: DefaultPadding, Bottom: DefaultPadding, Left: DefaultPadding},
		candleWidth:       orFloat(o.CandleWidth, DefaultCandleWidth),
		hideTooltip:       o.HideTooltip,
		crosshair:         o.Crosshair,
		tooltipTitle:      o.TooltipTitle,
		hideXAxis:         o.HideXAxis,
		hideYAxis:         o.HideYAxis,
		xLabel:            o.XLabel,
		yLabel:            o.YLabel,
		xFormatter:        o.XFormatter,
		yFormatter:        o.YFormatter,
		volumeFormatter:   o.VolumeFormatter,
		xNumTicks:         orInt(o.XNumTicks, DefaultNumTicks),
		yNumTicks:         orInt(o.YNumTicks, DefaultNumTicks),
		xGridLine:         o.XGridLine,
		yGridLine:         orBool(o.YGridLine, true),
		xDomainLine:       orBool(o.XDomainLine, true),
		yDomainLine:       orBool(o.YDomainLine, true),
		xTickLine:         orBool(o.XTickLine, true),
		yTickLine:         orBool(o.YTickLine, true),
		minMaxTicksOnly:   o.MinMaxTicksOnly,
		showVolume:        o.ShowVolume,
		volumeHeightRatio: orFloat(o.VolumeHeightRatio, DefaultVolumeHeightRatio),
		domainMargin:      orFloat(o.DomainMargin, domain.DefaultMargin),
		logger:            o.Logger,
	}

	if o.Padding != nil {
		s.padding = *o.Padding
	}
	s.bullishColor = orString(o.BullishColor, DefaultBullishColor)
	s.bearishColor = orString(o.BearishColor, DefaultBearishColor)

	if s.logger == nil {
		nop := zerolog.Nop()
		s.logger = &nop
	}

	return s
}

// Validate asserts the options are sane once defaults are applied.
func (o *Options) Validate() error {
	s := o.resolve()
	return s.validate()
}

// validate asserts the resolved settings are sane.
func (s *settings) validate() error {
	var errs error

	if !(s.width > 0) || math.IsInf(s.width, 0) {
		errs = errors.Join(errs, shared.ConfigError("width", "must be a positive number, got %v", s.width))
	}
	if !(s.height > 0) || math.IsInf(s.height, 0) {
		errs = errors.Join(errs, shared.ConfigError("height", "must be a positive number, got %v", s.height))
	}

	pad := s.padding
	sides := []struct {
		name string
		v    float64
	}{
		{"padding.top", pad.Top},
		{"padding.right", pad.Right},
		{"padding.bottom", pad.Bottom},
		{"padding.left", pad.Left},
	}
	negative := false
	for _, side := range sides {
		if !(side.v >= 0) || math.IsInf(side.v, 0) {
			negative = true
			errs = errors.Join(errs, shared.ConfigError(side.name, "must be a finite non-negative number, got %v", side.v))
		}
	}
	if !negative && s.width > 0 && s.height > 0 {
		if pad.Left+pad.Right >= s.width {
			errs = errors.Join(errs, shared.ConfigError("padding", "leaves no drawable width within %v", s.width))
		}
		if pad.Top+pad.Bottom >= s.height {
			errs = errors.Join(errs, shared.ConfigError("padding", "leaves no drawable height within %v", s.height))
		}
	}

	if !(s.candleWidth > 0 && s.candleWidth <= 1) {
		errs = errors.Join(errs, shared.ConfigError("candleWidth", "must be within (0, 1], got %v", s.candleWidth))
	}
	if !(s.volumeHeightRatio >= 0 && s.volumeHeightRatio < 1) {
		errs = errors.Join(errs, shared.ConfigError("volumeHeightRatio", "must be within [0, 1), got %v", s.volumeHeightRatio))
	} else if s.showVolume && !negative && s.height > 0 && s.height*(1-s.volumeHeightRatio) <= pad.Top {
		errs = errors.Join(errs, shared.ConfigError("padding", "leaves no main panel height above the volume panel"))
	}
	if !(s.domainMargin >= 0 && s.domainMargin < 1) {
		errs = errors.Join(errs, shared.ConfigError("domainMargin", "must be within [0, 1), got %v", s.domainMargin))
	}
	if s.xNumTicks < 1 {
		errs = errors.Join(errs, shared.ConfigError("xNumTicks", "must be at least 1, got %d", s.xNumTicks))
	}
	if s.yNumTicks < 1 {
		errs = errors.Join(errs, shared.ConfigError("yNumTicks", "must be at least 1, got %d", s.yNumTicks))
	}

	return errs
}
