package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dnldd/candlechart/accessor"
	"github.com/dnldd/candlechart/layout"
	"github.com/dnldd/candlechart/shared"
	"github.com/dnldd/candlechart/source"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// ChartConfig represents the configuration struct for the chart service.
type ChartConfig struct {
	// DataFilepath is the filepath to a JSON records file.
	DataFilepath string
	// DataPath is the gjson path of the records array within the data file.
	DataPath string
	// JSONPaths are the record field paths of JSON records.
	JSONPaths accessor.JSONPaths
	// DateUnit is the unit of numeric record dates.
	DateUnit shared.TimeUnit
	// Fetcher is the database record source, used when no data file is set.
	Fetcher source.RecordFetcher
	// Table is the table the fetcher reads records from.
	Table string
	// Options are the chart layout options.
	Options *layout.Options
	// Probes are pointer x coordinates looked up after every render.
	Probes []float64
	// OutputFilepath is the plan output file, stdout when empty.
	OutputFilepath string
	// Refresh is the re-render interval, zero renders once.
	Refresh time.Duration
	// Logger is the service logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ChartConfig) Validate() error {
	var errs error

	switch {
	case cfg.DataFilepath != "" && cfg.Fetcher != nil:
		errs = errors.Join(errs, fmt.Errorf("only one record source can be provided"))
	case cfg.DataFilepath == "" && cfg.Fetcher == nil:
		errs = errors.Join(errs, fmt.Errorf("no record source provided for chart service"))
	case cfg.Fetcher != nil && cfg.Table == "":
		errs = errors.Join(errs, fmt.Errorf("record table cannot be an empty string"))
	}
	if cfg.Options == nil {
		errs = errors.Join(errs, fmt.Errorf("chart options cannot be nil"))
	} else if err := cfg.Options.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	if cfg.Refresh < 0 {
		errs = errors.Join(errs, fmt.Errorf("refresh interval cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Chart represents the chart layout service.
type Chart struct {
	cfg    *ChartConfig
	logger *zerolog.Logger
	output io.Writer

	// last is the fingerprint of the last rendered plan.
	last string
	mtx  sync.Mutex
}

// NewChart initializes a new chart service.
func NewChart(cfg *ChartConfig) (*Chart, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating chart config: %w", err)
	}

	logger := cfg.Logger.With().Str("component", "chart").Logger()

	// Defaults apply to copies; the caller's config and options are left as is.
	chartCfg := *cfg
	opts := *cfg.Options
	if opts.Logger == nil {
		layoutLogger := cfg.Logger.With().Str("component", "layout").Logger()
		opts.Logger = &layoutLogger
	}
	chartCfg.Options = &opts

	return &Chart{cfg: &chartCfg, logger: &logger, output: os.Stdout}, nil
}

// Compute loads the records from the configured source and plans their layout.
func (c *Chart) Compute(ctx context.Context) (*layout.Plan, error) {
	if c.cfg.DataFilepath != "" {
		records, err := source.LoadJSON(c.cfg.DataFilepath, c.cfg.DataPath)
		if err != nil {
			return nil, fmt.Errorf("loading records: %w", err)
		}

		paths := c.cfg.JSONPaths
		if paths.DateUnit == shared.NoUnit {
			paths.DateUnit = c.cfg.DateUnit
		}

		return layout.Compute(records, accessor.JSONAccessors(paths), c.cfg.Options)
	}

	records, err := c.cfg.Fetcher.FetchRecords(ctx, c.cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}

	acc := accessor.RecordAccessors()
	acc.DateUnit = c.cfg.DateUnit

	return layout.Compute(records, acc, c.cfg.Options)
}

// write outputs the provided plan.
func (c *Chart) write(plan *layout.Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	data = append(data, '\n')

	if c.cfg.OutputFilepath == "" {
		_, err = c.output.Write(data)
		return err
	}

	err = os.WriteFile(c.cfg.OutputFilepath, data, 0644)
	if err != nil {
		return fmt.Errorf("writing plan to file with path '%s': %w", c.cfg.OutputFilepath, err)
	}

	return nil
}

// probe logs the crosshair hits of the configured pointer probes. Probes are
// taken at the vertical centre of the main panel.
func (c *Chart) probe(plan *layout.Plan) {
	py := plan.MainPanel.Y + plan.MainPanel.Height/2
	for _, px := range c.cfg.Probes {
		hit, ok := plan.Lookup(px, py)
		if !ok {
			c.logger.Info().Float64("x", px).Msg("no candle under probe")
			continue
		}

		c.logger.Info().
			Float64("x", px).
			Int("index", hit.Point.Index).
			Str("title", hit.Title).
			Str("kind", hit.Kind.String()).
			Float64("close", hit.Point.Close).
			Float64("price", hit.Crosshair.Value).
			Msg("probe hit")
	}
}

// Render computes, outputs and probes a single plan.
func (c *Chart) Render(ctx context.Context) (*layout.Plan, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	plan, err := c.Compute(ctx)
	if err != nil {
		return nil, err
	}

	err = c.write(plan)
	if err != nil {
		return nil, err
	}

	if plan.Fingerprint == c.last {
		c.logger.Debug().Msg("chart plan unchanged since the last render")
	}
	c.last = plan.Fingerprint

	c.logger.Info().
		Int("candles", len(plan.Candles)).
		Int("invalid", plan.InvalidCount).
		Str("fingerprint", plan.Fingerprint).
		Msg("rendered chart plan")

	c.probe(plan)

	return plan, nil
}

// Run handles the lifecycle processes of the chart service. It renders once,
// or on the configured refresh interval until the context is cancelled.
func (c *Chart) Run(ctx context.Context) error {
	if c.cfg.Refresh == 0 {
		_, err := c.Render(ctx)
		return err
	}

	jobScheduler := gocron.NewScheduler(time.UTC)
	jobScheduler.SingletonModeAll()

	_, err := jobScheduler.Every(c.cfg.Refresh).Do(func() {
		_, err := c.Render(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("rendering chart plan")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling chart refresh: %w", err)
	}

	jobScheduler.StartAsync()
	<-ctx.Done()
	jobScheduler.Stop()

	return nil
}
