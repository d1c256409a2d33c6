package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dnldd/candlechart/shared"
	"github.com/rs/zerolog"

	// Registers the pure go sqlite driver.
	_ "modernc.org/sqlite"
)

// SQLiteConfig is the configuration for the sqlite record source.
type SQLiteConfig struct {
	// Path is the filepath to the sqlite database.
	Path string
	// Logger is the source logger.
	Logger *zerolog.Logger
}

// SQLite represents a record source backed by a local sqlite database.
type SQLite struct {
	cfg *SQLiteConfig
	db  *sql.DB
}

// Ensure the sqlite source implements the RecordFetcher interface.
var _ RecordFetcher = (*SQLite)(nil)

// NewSQLite opens the sqlite database at the configured path.
func NewSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path cannot be an empty string")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database '%s': %w", cfg.Path, err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite database '%s': %w", cfg.Path, err)
	}

	return &SQLite{cfg: cfg, db: db}, nil
}

// FetchRecords returns the records of the provided table ordered by rowid.
func (s *SQLite) FetchRecords(ctx context.Context, table string) ([]shared.Record, error) {
	query, err := selectRecordsSQL(table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", table, err)
	}
	defer rows.Close()

	var records []shared.Record
	for rows.Next() {
		var date, open, high, low, close, volume any
		err := rows.Scan(&date, &open, &high, &low, &close, &volume)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}

		rec, bad := newRecord(date, open, high, low, close, volume)
		if len(bad) > 0 && s.cfg.Logger != nil {
			s.cfg.Logger.Warn().Strs("columns", bad).Int("row", len(records)).
				Msgf("unconvertible columns in %s", table)
		}
		records = append(records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}

	return records, nil
}

// Close terminates the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
