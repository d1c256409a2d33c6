package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/candlechart/layout"
	"github.com/dnldd/candlechart/shared"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the configuration struct for the service.
type Config struct {
	// DataFilepath is the filepath to a JSON records file.
	DataFilepath string
	// DataPath is the gjson path of the records array within the data file.
	DataPath string
	// DateUnit is the unit of numeric dates, "s" or "ms". Empty treats
	// numeric dates as plain numbers.
	DateUnit string
	// RqliteEndpoint is the rqlite connection endpoint.
	RqliteEndpoint string
	// RqliteUser is the rqlite user.
	RqliteUser string
	// RqlitePass is the rqlite user pass.
	RqlitePass string
	// RqliteTable is the rqlite records table.
	RqliteTable string
	// SQLitePath is the filepath to a sqlite database.
	SQLitePath string
	// SQLiteTable is the sqlite records table.
	SQLiteTable string
	// StyleFilepath is the filepath to the YAML chart options.
	StyleFilepath string
	// OutputFilepath is the plan output filepath, stdout when empty.
	OutputFilepath string
	// Probes are comma separated pointer x coordinates to look up.
	Probes []string
	// Refresh is the re-render interval, for example "1m".
	Refresh string
	// LogFilepath enables rotating file logs when set.
	LogFilepath string
	// LogLevel is the minimum log level.
	LogLevel string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	var sources int
	if cfg.DataFilepath != "" {
		sources++
	}
	if cfg.RqliteEndpoint != "" {
		sources++
		if cfg.RqliteTable == "" {
			errs = errors.Join(errs, fmt.Errorf("rqlite table cannot be an empty string"))
		}
	}
	if cfg.SQLitePath != "" {
		sources++
		if cfg.SQLiteTable == "" {
			errs = errors.Join(errs, fmt.Errorf("sqlite table cannot be an empty string"))
		}
	}
	switch {
	case sources == 0:
		errs = errors.Join(errs, fmt.Errorf("no record source provided, set a data filepath, rqlite endpoint or sqlite path"))
	case sources > 1:
		errs = errors.Join(errs, fmt.Errorf("only one record source can be provided"))
	}

	if _, err := shared.ParseTimeUnit(cfg.DateUnit); err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := cfg.probes(); err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := cfg.refresh(); err != nil {
		errs = errors.Join(errs, err)
	}
	if _, err := cfg.logLevel(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// probes parses the configured probe coordinates.
func (cfg *Config) probes() ([]float64, error) {
	probes := make([]float64, 0, len(cfg.Probes))
	for _, p := range cfg.Probes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		px, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing probe '%s': %w", p, err)
		}
		probes = append(probes, px)
	}

	return probes, nil
}

// refresh parses the configured refresh interval.
func (cfg *Config) refresh() (time.Duration, error) {
	if cfg.Refresh == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(cfg.Refresh)
	if err != nil {
		return 0, fmt.Errorf("parsing refresh interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh interval must be positive, got %s", cfg.Refresh)
	}

	return d, nil
}

// logLevel parses the configured log level, defaulting to info.
func (cfg *Config) logLevel() (zerolog.Level, error) {
	if cfg.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parsing log level: %w", err)
	}

	return level, nil
}

// chartSettings parses the probes, refresh interval and date unit handed to
// the chart service.
func (cfg *Config) chartSettings() ([]float64, time.Duration, shared.TimeUnit, error) {
	probes, err := cfg.probes()
	if err != nil {
		return nil, 0, shared.NoUnit, err
	}
	refresh, err := cfg.refresh()
	if err != nil {
		return nil, 0, shared.NoUnit, err
	}
	unit, err := shared.ParseTimeUnit(cfg.DateUnit)
	if err != nil {
		return nil, 0, shared.NoUnit, err
	}

	return probes, refresh, unit, nil
}

// loadOptions loads the chart options from the configured style file.
func (cfg *Config) loadOptions() (*layout.Options, error) {
	if cfg.StyleFilepath == "" {
		return &layout.Options{Width: 800, Height: 400}, nil
	}

	readb, err := os.ReadFile(cfg.StyleFilepath)
	if err != nil {
		return nil, fmt.Errorf("reading style from file with path '%s': %w", cfg.StyleFilepath, err)
	}

	return layout.ParseOptions(readb)
}

// registerFlag registers a command line flag defaulting to the environment
// variable of the same name. Flags are registered once per config.
func (cfg *Config) registerFlag(name string, value any, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}
	if cfg.registeredFlags[name] {
		return nil
	}

	env, set := os.LookupEnv(name)
	switch v := value.(type) {
	case *string:
		flag.StringVar(v, name, env, usage)
	case *bool:
		def, _ := strconv.ParseBool(env)
		flag.BoolVar(v, name, def, usage)
	case *int:
		def, _ := strconv.Atoi(env)
		flag.IntVar(v, name, def, usage)
	case *[]string:
		if set && env != "" {
			*v = strings.Split(env, ",")
		}
		flag.Func(name, usage, func(s string) error {
			*v = strings.Split(s, ",")
			return nil
		})
	default:
		return fmt.Errorf("%s: unsupported flag type %T", name, value)
	}

	cfg.registeredFlags[name] = true

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	flags := []struct {
		name  string
		value any
		usage string
	}{
		{"datafilepath", &cfg.DataFilepath, "the JSON records filepath"},
		{"datapath", &cfg.DataPath, "the gjson path of the records array"},
		{"dateunit", &cfg.DateUnit, "the unit of numeric dates (s, ms)"},
		{"rqliteendpoint", &cfg.RqliteEndpoint, "the rqlite endpoint"},
		{"rqliteuser", &cfg.RqliteUser, "the rqlite user"},
		{"rqlitepass", &cfg.RqlitePass, "the rqlite user pass"},
		{"rqlitetable", &cfg.RqliteTable, "the rqlite records table"},
		{"sqlitepath", &cfg.SQLitePath, "the sqlite database filepath"},
		{"sqlitetable", &cfg.SQLiteTable, "the sqlite records table"},
		{"stylefilepath", &cfg.StyleFilepath, "the YAML chart style filepath"},
		{"outputfilepath", &cfg.OutputFilepath, "the plan output filepath"},
		{"probes", &cfg.Probes, "comma separated pointer x coordinates to look up"},
		{"refresh", &cfg.Refresh, "the re-render interval"},
		{"logfilepath", &cfg.LogFilepath, "the rotating log filepath"},
		{"loglevel", &cfg.LogLevel, "the minimum log level"},
	}
	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
