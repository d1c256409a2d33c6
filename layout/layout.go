package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/candlechart/accessor"
	"github.com/dnldd/candlechart/domain"
	"github.com/dnldd/candlechart/geometry"
	"github.com/dnldd/candlechart/interaction"
	"github.com/dnldd/candlechart/scale"
	"github.com/dnldd/candlechart/shared"
	"github.com/dnldd/candlechart/tick"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// fingerprintSpace is the namespace plan fingerprints are derived in.
	fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dnldd/candlechart/layout"))
)

// Axis represents a planned chart axis.
type Axis struct {
	Hidden     bool        `json:"hidden"`
	Label      string      `json:"label,omitempty"`
	GridLine   bool        `json:"gridLine"`
	DomainLine bool        `json:"domainLine"`
	TickLine   bool        `json:"tickLine"`
	Ticks      []tick.Tick `json:"ticks"`
}

// Tooltip represents the tooltip and crosshair configuration of a plan.
type Tooltip struct {
	Enabled   bool      `json:"enabled"`
	Crosshair Crosshair `json:"crosshair"`
}

// Plan represents the computed layout of a chart. A plan is recreated by every
// compute call and is never mutated afterwards.
type Plan struct {
	// Fingerprint identifies the plan contents. Identical inputs produce
	// identical fingerprints.
	Fingerprint string        `json:"fingerprint"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	MainPanel   shared.Rect   `json:"mainPanel"`
	VolumePanel *shared.Rect  `json:"volumePanel,omitempty"`
	Domain      domain.Domain `json:"domain"`
	Scales      scale.Scales  `json:"scales"`
	// Points holds one resolved point per input record, in input order.
	Points []shared.Point `json:"points"`
	// InvalidCount is the number of points excluded from domain math.
	InvalidCount int                  `json:"invalidCount"`
	Candles      []geometry.Candle    `json:"candles"`
	Volumes      []geometry.VolumeBar `json:"volumes,omitempty"`
	XAxis        Axis                 `json:"xAxis"`
	YAxis        Axis                 `json:"yAxis"`
	VolumeAxis   *Axis                `json:"volumeAxis,omitempty"`
	Tooltip      Tooltip              `json:"tooltip"`
	Style        geometry.Style       `json:"style"`

	titles []string
	index  *interaction.Index
}

// Compute plans the chart layout of the provided records. Configuration
// errors are reported before any geometry is computed; malformed records
// become gaps and never fail the computation.
func Compute[T any](records []T, acc accessor.Accessors[T], opts *Options) (*Plan, error) {
	if opts == nil {
		opts = &Options{}
	}

	cfg := opts.resolve()
	err := cfg.validate()
	if err != nil {
		return nil, err
	}

	log := cfg.logger
	points := accessor.Resolve(records, acc)
	invalid := reportInvalid(log, points, records)

	dom, keys := domain.Calculate(points, cfg.domainMargin)
	if dom.XDegenerate || dom.YDegenerate || dom.VolDegenerate {
		log.Debug().
			Bool("x", dom.XDegenerate).
			Bool("y", dom.YDegenerate).
			Bool("volume", dom.VolDegenerate).
			Int("valid", dom.ValidCount).
			Msg("falling back to a synthetic domain window")
	}

	scales := scale.Build(&dom, cfg.width, cfg.height, cfg.padding, cfg.showVolume, cfg.volumeHeightRatio)
	style := geometry.Style{
		BullishColor: cfg.bullishColor,
		BearishColor: cfg.bearishColor,
		CandleWidth:  cfg.candleWidth,
	}

	plan := &Plan{
		Width:        cfg.width,
		Height:       cfg.height,
		MainPanel:    scales.Panels.Main,
		VolumePanel:  scales.Panels.Volume,
		Domain:       dom,
		Scales:       scales,
		Points:       points,
		InvalidCount: invalid,
		Candles:      geometry.Candles(points, keys, scales.X, scales.Price, style),
		Tooltip:      Tooltip{Enabled: !cfg.hideTooltip, Crosshair: cfg.crosshair},
		Style:        style,
	}

	plan.XAxis = Axis{
		Hidden:     cfg.hideXAxis,
		Label:      cfg.xLabel,
		GridLine:   cfg.xGridLine,
		DomainLine: cfg.xDomainLine,
		TickLine:   cfg.xTickLine,
		Ticks:      tick.Build(xTickSet(&dom, points, &cfg), scales.X.Apply, cfg.xFormatter, log),
	}
	plan.YAxis = Axis{
		Hidden:     cfg.hideYAxis,
		Label:      cfg.yLabel,
		GridLine:   cfg.yGridLine,
		DomainLine: cfg.yDomainLine,
		TickLine:   cfg.yTickLine,
		Ticks: tick.Build(tick.NumericSet(dom.YMin, dom.YMax, cfg.yNumTicks, cfg.minMaxTicksOnly),
			scales.Price.Apply, cfg.yFormatter, log),
	}

	if scales.Volume != nil {
		plan.Volumes = geometry.Volumes(points, keys, scales.X, *scales.Volume, style)

		count := max(1, int(math.Round(float64(cfg.yNumTicks)*cfg.volumeHeightRatio)))
		formatter := cfg.volumeFormatter
		if formatter == nil {
			formatter = cfg.yFormatter
		}
		plan.VolumeAxis = &Axis{
			Hidden:     cfg.hideYAxis,
			GridLine:   cfg.yGridLine,
			DomainLine: cfg.yDomainLine,
			TickLine:   cfg.yTickLine,
			Ticks: tick.Build(tick.VolumeSet(dom.VolMax, count, cfg.minMaxTicksOnly),
				scales.Volume.Apply, formatter, log),
		}
	}

	plan.index = interaction.NewIndex(plan.Candles)
	plan.titles = titles(points, cfg.tooltipTitle, log)

	plan.Fingerprint, err = fingerprint(plan)
	if err != nil {
		log.Error().Err(err).Msg("fingerprinting chart plan")
	}

	log.Debug().
		Int("points", len(points)).
		Int("invalid", invalid).
		Str("xKind", dom.XKind.String()).
		Str("fingerprint", plan.Fingerprint).
		Msg("computed chart layout")

	return plan, nil
}

// reportInvalid logs the points excluded from domain math and returns their count.
func reportInvalid[T any](log *zerolog.Logger, points []shared.Point, records []T) int {
	var invalid int
	for idx := range points {
		if points[idx].Valid {
			continue
		}

		invalid++
		log.Warn().Int("index", idx).Err(points[idx].Issue).Msg("excluding record from chart domain")
		if evt := log.Debug(); evt.Enabled() {
			evt.Msgf("rejected record %d: %s", idx, spew.Sdump(records[idx]))
		}
	}

	return invalid
}

// xTickSet plans the x ticks according to the x domain kind.
func xTickSet(dom *domain.Domain, points []shared.Point, cfg *settings) tick.Set {
	switch dom.XKind {
	case domain.Time:
		return tick.TimeSet(dom.XMin, dom.XMax, cfg.xNumTicks, cfg.minMaxTicksOnly)
	case domain.Numeric:
		return tick.NumericSet(dom.XMin, dom.XMax, cfg.xNumTicks, cfg.minMaxTicksOnly)
	default:
		return tick.OrdinalSet(dom.XMin, dom.XMax, len(points), cfg.xNumTicks, cfg.minMaxTicksOnly,
			func(idx int) tick.Value {
				pt := &points[idx]
				switch {
				case pt.HasDate:
					return tick.Value{Value: pt.Key, Time: pt.Date, IsTime: true}
				case pt.HasKey:
					return tick.Value{Value: pt.Key}
				default:
					return tick.Value{Value: float64(idx)}
				}
			})
	}
}

// defaultTitle returns the tooltip title of a point without a custom title.
func defaultTitle(pt *shared.Point) string {
	switch {
	case pt.HasDate:
		return pt.Date.Format(shared.DateLayout)
	case pt.HasKey:
		return strconv.FormatFloat(pt.Key, 'f', -1, 64)
	default:
		return fmt.Sprintf("#%d", pt.Index)
	}
}

// safeTitle calls the custom title function, recovering from panics.
func safeTitle(fn func(shared.Point) string, pt shared.Point) (title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tooltip title panicked: %v", r)
		}
	}()

	return fn(pt), nil
}

// titles computes the tooltip title of every valid point.
func titles(points []shared.Point, fn func(shared.Point) string, log *zerolog.Logger) []string {
	out := make([]string, len(points))
	for idx := range points {
		pt := &points[idx]
		if !pt.Valid {
			continue
		}

		if fn == nil {
			out[idx] = defaultTitle(pt)
			continue
		}

		title, err := safeTitle(fn, *pt)
		if err != nil {
			log.Debug().Err(err).Int("index", idx).Msg("falling back to the default tooltip title")
			title = defaultTitle(pt)
		}
		out[idx] = title
	}

	return out
}

// fingerprint derives the deterministic identifier of the provided plan.
func fingerprint(plan *Plan) (string, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encoding plan: %w", err)
	}

	return uuid.NewSHA1(fingerprintSpace, payload).String(), nil
}
