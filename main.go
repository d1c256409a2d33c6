package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnldd/candlechart/accessor"
	"github.com/dnldd/candlechart/service"
	"github.com/dnldd/candlechart/source"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// handleTermination cancels the provided context on an interrupt or
// termination signal. It returns once the context is done.
func handleTermination(ctx context.Context, cancel context.CancelFunc, logger *zerolog.Logger) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case <-ctx.Done():
	case sig := <-interrupt:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}
}

// newLogger creates the service logger, writing to stderr and, when
// configured, a rotating log file.
func newLogger(cfg *Config) (zerolog.Logger, io.Closer, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := cfg.logLevel()
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var closer io.Closer
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if cfg.LogFilepath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFilepath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", "candlechart").
		Logger()

	return logger, closer, nil
}

// newFetcher creates the configured database record source. It returns a nil
// fetcher when records are read from a file.
func newFetcher(ctx context.Context, cfg *Config, logger *zerolog.Logger) (source.RecordFetcher, string, func(), error) {
	switch {
	case cfg.RqliteEndpoint != "":
		rqliteLogger := logger.With().Str("component", "rqlite").Logger()
		rq, err := source.NewRqlite(&source.RqliteConfig{
			Endpoint: cfg.RqliteEndpoint,
			User:     cfg.RqliteUser,
			Pass:     cfg.RqlitePass,
			Logger:   &rqliteLogger,
		})
		if err != nil {
			return nil, "", nil, fmt.Errorf("creating rqlite source: %w", err)
		}
		return rq, cfg.RqliteTable, func() {}, nil

	case cfg.SQLitePath != "":
		sqliteLogger := logger.With().Str("component", "sqlite").Logger()
		db, err := source.NewSQLite(ctx, &source.SQLiteConfig{Path: cfg.SQLitePath, Logger: &sqliteLogger})
		if err != nil {
			return nil, "", nil, fmt.Errorf("creating sqlite source: %w", err)
		}
		return db, cfg.SQLiteTable, func() {
			err := db.Close()
			if err != nil {
				logger.Error().Err(err).Msg("closing sqlite source")
			}
		}, nil

	default:
		return nil, "", func() {}, nil
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config:%v", err)
		return
	}

	logger, closer, err := newLogger(&cfg)
	if err != nil {
		log.Printf("creating logger: %v", err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts, err := cfg.loadOptions()
	if err != nil {
		logger.Error().Err(err).Msg("loading chart options")
		return
	}

	fetcher, table, release, err := newFetcher(ctx, &cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("creating record source")
		return
	}
	defer release()

	probes, refresh, unit, err := cfg.chartSettings()
	if err != nil {
		logger.Error().Err(err).Msg("parsing chart settings")
		return
	}

	chartCfg := service.ChartConfig{
		DataFilepath:   cfg.DataFilepath,
		DataPath:       cfg.DataPath,
		JSONPaths:      accessor.DefaultJSONPaths(),
		DateUnit:       unit,
		Fetcher:        fetcher,
		Table:          table,
		Options:        opts,
		Probes:         probes,
		OutputFilepath: cfg.OutputFilepath,
		Refresh:        refresh,
		Logger:         &logger,
	}

	chart, err := service.NewChart(&chartCfg)
	if err != nil {
		logger.Error().Err(err).Msg("creating chart service")
		return
	}

	go handleTermination(ctx, cancel, &logger)

	err = chart.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("running chart service")
	}
}
