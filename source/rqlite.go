package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/candlechart/shared"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

// RqliteConfig is the configuration for the rqlite record source.
type RqliteConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Timeout bounds every request, defaults to five seconds.
	Timeout time.Duration
	// Logger is the source logger.
	Logger *zerolog.Logger
}

// Rqlite represents a record source backed by an rqlite cluster.
type Rqlite struct {
	cfg    *RqliteConfig
	client *rqlitehttp.Client
}

// Ensure the rqlite source implements the RecordFetcher interface.
var _ RecordFetcher = (*Rqlite)(nil)

// NewRqlite initializes a new rqlite record source.
func NewRqlite(cfg *RqliteConfig) (*Rqlite, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("rqlite endpoint cannot be an empty string")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = time.Second * 5
	}

	httpc := &http.Client{Timeout: timeout}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	return &Rqlite{cfg: cfg, client: client}, nil
}

// FetchRecords returns the records of the provided table ordered by rowid.
func (r *Rqlite) FetchRecords(ctx context.Context, table string) ([]shared.Record, error) {
	query, err := selectRecordsSQL(table)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.QuerySingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", table, err)
	}

	results := resp.GetQueryResults()
	if len(results) == 0 {
		return nil, fmt.Errorf("querying table %s: no result returned", table)
	}

	result := results[0]
	if result.Error != "" {
		return nil, fmt.Errorf("querying table %s: %s", table, result.Error)
	}

	columns := make(map[string]int, len(result.Columns))
	for idx, name := range result.Columns {
		columns[name] = idx
	}
	column := func(row []any, name string) any {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return nil
		}
		return row[idx]
	}

	records := make([]shared.Record, 0, len(result.Values))
	for idx, row := range result.Values {
		rec, bad := newRecord(column(row, dateColumn), column(row, openColumn), column(row, highColumn),
			column(row, lowColumn), column(row, closeColumn), column(row, volumeColumn))
		if len(bad) > 0 && r.cfg.Logger != nil {
			r.cfg.Logger.Warn().Strs("columns", bad).Int("row", idx).
				Msgf("unconvertible columns in %s: %s", table, spew.Sdump(row))
		}
		records = append(records, rec)
	}

	return records, nil
}
