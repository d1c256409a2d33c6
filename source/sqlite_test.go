package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dnldd/candlechart/accessor"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

func seedSQLite(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	assert.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE candles (date TEXT, open REAL, high REAL, low REAL, close REAL, volume REAL)")
	assert.NoError(t, err)

	rows := []struct {
		date                   string
		open, high, low, close float64
		volume                 any
	}{
		{"2025-01-01", 10, 12, 9, 11, 500.0},
		{"2025-01-02", 11, 11, 8, 9, nil},
		{"2025-01-03", 9, 9, 7, 8, 1000.0},
	}
	for _, row := range rows {
		_, err = db.Exec("INSERT INTO candles(date, open, high, low, close, volume) VALUES(?,?,?,?,?,?)",
			row.date, row.open, row.high, row.low, row.close, row.volume)
		assert.NoError(t, err)
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.db")
	seedSQLite(t, path)

	ctx := context.Background()
	logger := zerolog.Nop()
	src, err := NewSQLite(ctx, &SQLiteConfig{Path: path, Logger: &logger})
	assert.NoError(t, err)
	defer src.Close()

	records, err := src.FetchRecords(ctx, "candles")
	assert.NoError(t, err)
	assert.Equal(t, len(records), 3)
	assert.Equal(t, records[0].Date, any("2025-01-01"))
	assert.Equal(t, records[1].Low, float64(8))
	assert.Nil(t, records[1].Volume)
	assert.Equal(t, *records[2].Volume, float64(1000))

	points := accessor.Resolve(records, accessor.RecordAccessors())
	for _, pt := range points {
		assert.True(t, pt.Valid)
	}

	// Ensure unknown tables and invalid names error.
	_, err = src.FetchRecords(ctx, "missing")
	assert.Error(t, err)
	_, err = src.FetchRecords(ctx, "candles;")
	assert.Error(t, err)

	_, err = NewSQLite(ctx, &SQLiteConfig{})
	assert.Error(t, err)
}

func TestNewRqlite(t *testing.T) {
	_, err := NewRqlite(&RqliteConfig{})
	assert.Error(t, err)

	src, err := NewRqlite(&RqliteConfig{Endpoint: "http://localhost:4001", User: "chart", Pass: "secret"})
	assert.NoError(t, err)
	assert.NotNil(t, src)

	_, err = src.FetchRecords(context.Background(), "bad table")
	assert.Error(t, err)
}
