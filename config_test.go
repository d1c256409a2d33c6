package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/candlechart/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name:    "valid config, data file",
			cfg:     Config{DataFilepath: "candles.json"},
			wantErr: nil,
		},
		{
			name: "valid config, rqlite",
			cfg: Config{
				RqliteEndpoint: "http://localhost:4001",
				RqliteTable:    "candles",
				Probes:         []string{"10", " 20.5"},
				Refresh:        "1m",
				LogLevel:       "debug",
				DateUnit:       "ms",
			},
			wantErr: nil,
		},
		{
			name:    "valid config, sqlite",
			cfg:     Config{SQLitePath: "candles.db", SQLiteTable: "candles"},
			wantErr: nil,
		},
		{
			name:    "no record source",
			cfg:     Config{},
			wantErr: []string{"no record source provided"},
		},
		{
			name: "multiple record sources",
			cfg: Config{
				DataFilepath: "candles.json",
				SQLitePath:   "candles.db",
				SQLiteTable:  "candles",
			},
			wantErr: []string{"only one record source can be provided"},
		},
		{
			name: "missing tables",
			cfg: Config{
				RqliteEndpoint: "http://localhost:4001",
				SQLitePath:     "candles.db",
			},
			wantErr: []string{
				"rqlite table cannot be an empty string",
				"sqlite table cannot be an empty string",
				"only one record source can be provided",
			},
		},
		{
			name: "malformed values",
			cfg: Config{
				DataFilepath: "candles.json",
				Probes:       []string{"left"},
				Refresh:      "soon",
				LogLevel:     "loud",
				DateUnit:     "fortnights",
			},
			wantErr: []string{
				"parsing probe 'left'",
				"parsing refresh interval",
				"parsing log level",
				"unknown time unit provided",
			},
		},
		{
			name:    "non-positive refresh",
			cfg:     Config{DataFilepath: "candles.json", Refresh: "0s"},
			wantErr: []string{"refresh interval must be positive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error(s) %v, got none", tt.wantErr)
					return
				}
				for _, want := range tt.wantErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			}
		})
	}
}

func TestConfigParsing(t *testing.T) {
	cfg := Config{Probes: []string{"10", "", " 20.5 "}, Refresh: "90s", LogLevel: "warn"}

	probes, err := cfg.probes()
	assert.NoError(t, err)
	assert.Equal(t, len(probes), 2)
	assert.Equal(t, probes[1], 20.5)

	refresh, err := cfg.refresh()
	assert.NoError(t, err)
	assert.Equal(t, refresh, time.Second*90)

	level, err := cfg.logLevel()
	assert.NoError(t, err)
	assert.Equal(t, level, zerolog.WarnLevel)

	cfg = Config{}
	refresh, err = cfg.refresh()
	assert.NoError(t, err)
	assert.Equal(t, refresh, time.Duration(0))
	level, err = cfg.logLevel()
	assert.NoError(t, err)
	assert.Equal(t, level, zerolog.InfoLevel)
}

func TestChartSettings(t *testing.T) {
	cfg := Config{Probes: []string{"40", "120.5"}, Refresh: "2m", DateUnit: "ms"}
	probes, refresh, unit, err := cfg.chartSettings()
	assert.NoError(t, err)
	assert.Equal(t, len(probes), 2)
	assert.Equal(t, probes[0], float64(40))
	assert.Equal(t, probes[1], 120.5)
	assert.Equal(t, refresh, time.Minute*2)
	assert.Equal(t, unit, shared.Milliseconds)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"bad probe", Config{Probes: []string{"x"}}, "parsing probe 'x'"},
		{"bad refresh", Config{Refresh: "-1s"}, "refresh interval must be positive"},
		{"bad unit", Config{DateUnit: "weeks"}, "unknown time unit provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := tt.cfg.chartSettings()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegisterFlag(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	t.Setenv("candlechartwidth", "640")

	var cfg Config
	var width int
	assert.NoError(t, cfg.registerFlag("candlechartwidth", &width, "the chart width"))
	assert.Equal(t, width, 640)

	// Ensure repeated registration is a no-op.
	assert.NoError(t, cfg.registerFlag("candlechartwidth", &width, "the chart width"))

	var ratio float64
	err := cfg.registerFlag("candlechartratio", &ratio, "the volume ratio")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported flag type"))
}

func TestLoadOptions(t *testing.T) {
	cfg := Config{}
	opts, err := cfg.loadOptions()
	assert.NoError(t, err)
	assert.NoError(t, opts.Validate())

	path := filepath.Join(t.TempDir(), "style.yaml")
	err = os.WriteFile(path, []byte("width: 640\nheight: 320\nshowVolume: true\nbearishColor: crimson\n"), 0644)
	assert.NoError(t, err)

	cfg.StyleFilepath = path
	opts, err = cfg.loadOptions()
	assert.NoError(t, err)
	assert.Equal(t, opts.Width, float64(640))
	assert.True(t, opts.ShowVolume)
	assert.Equal(t, opts.BearishColor, "crimson")
	assert.Equal(t, opts.BullishColor, "")
	assert.NoError(t, opts.Validate())

	cfg.StyleFilepath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.loadOptions()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candlechart.log")
	cfg := Config{LogFilepath: path, LogLevel: "info"}

	logger, closer, err := newLogger(&cfg)
	assert.NoError(t, err)
	assert.NotNil(t, closer)

	logger.Info().Msg("rotating log check")
	assert.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "rotating log check"))

	cfg = Config{LogLevel: "loud"}
	_, _, err = newLogger(&cfg)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	// Save and restore original os.Args and environment
	origArgs := os.Args
	origEnv := os.Environ()
	defer func() {
		os.Args = origArgs
		for _, kv := range origEnv {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				os.Setenv(parts[0], parts[1])
			}
		}
	}()

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		expectErr   bool
		expectInErr []string
		expectCfg   Config
	}{
		{
			name: "all from env, data file",
			env: map[string]string{
				"datafilepath": "candles.json",
				"datapath":     "candles",
				"probes":       "10,20",
			},
			args:      []string{"cmd"},
			expectErr: false,
			expectCfg: Config{
				DataFilepath: "candles.json",
				DataPath:     "candles",
				Probes:       []string{"10", "20"},
			},
		},
		{
			name:      "all from flags, sqlite",
			env:       map[string]string{},
			args:      []string{"cmd", "-sqlitepath=candles.db", "-sqlitetable=candles", "-refresh=1m"},
			expectErr: false,
			expectCfg: Config{
				SQLitePath:  "candles.db",
				SQLiteTable: "candles",
				Refresh:     "1m",
			},
		},
		{
			name:        "missing record source",
			env:         map[string]string{},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"no record source provided"},
		},
		{
			name: "rqlite from env, table from flag",
			env: map[string]string{
				"rqliteendpoint": "http://localhost:4001",
			},
			args:      []string{"cmd", "-rqlitetable=candles"},
			expectErr: false,
			expectCfg: Config{
				RqliteEndpoint: "http://localhost:4001",
				RqliteTable:    "candles",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			// Set environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Set command-line arguments
			os.Args = tt.args

			var cfg Config
			err := loadConfig(&cfg, filepath.Join(t.TempDir(), ".env")) // no .env file present

			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				for _, want := range tt.expectInErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
			} else {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if cfg.DataFilepath != tt.expectCfg.DataFilepath {
					t.Errorf("DataFilepath: got %v, want %v", cfg.DataFilepath, tt.expectCfg.DataFilepath)
				}
				if cfg.DataPath != tt.expectCfg.DataPath {
					t.Errorf("DataPath: got %v, want %v", cfg.DataPath, tt.expectCfg.DataPath)
				}
				if len(tt.expectCfg.Probes) != len(cfg.Probes) {
					t.Errorf("Probes: got %v, want %v", cfg.Probes, tt.expectCfg.Probes)
				}
				if cfg.SQLitePath != tt.expectCfg.SQLitePath || cfg.SQLiteTable != tt.expectCfg.SQLiteTable {
					t.Errorf("SQLite: got %v/%v, want %v/%v", cfg.SQLitePath, cfg.SQLiteTable,
						tt.expectCfg.SQLitePath, tt.expectCfg.SQLiteTable)
				}
				if cfg.RqliteEndpoint != tt.expectCfg.RqliteEndpoint || cfg.RqliteTable != tt.expectCfg.RqliteTable {
					t.Errorf("Rqlite: got %v/%v, want %v/%v", cfg.RqliteEndpoint, cfg.RqliteTable,
						tt.expectCfg.RqliteEndpoint, tt.expectCfg.RqliteTable)
				}
				if cfg.Refresh != tt.expectCfg.Refresh {
					t.Errorf("Refresh: got %v, want %v", cfg.Refresh, tt.expectCfg.Refresh)
				}
			}

			// Clean up env
			for k := range tt.env {
				os.Unsetenv(k)
			}
		})
	}
}
