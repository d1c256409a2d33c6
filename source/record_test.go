package source

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestSelectRecordsSQL(t *testing.T) {
	query, err := selectRecordsSQL("candles_5m")
	assert.NoError(t, err)
	assert.Equal(t, query, "SELECT date, open, high, low, close, volume FROM candles_5m ORDER BY rowid")

	for _, table := range []string{"", "candles; DROP TABLE x", "1candles", "a-b"} {
		_, err := selectRecordsSQL(table)
		if err == nil {
			t.Errorf("expected an error for table name %q", table)
		}
	}
}

func TestNewRecord(t *testing.T) {
	rec, bad := newRecord("2025-01-01", int64(10), 12.5, json.Number("9"), []byte("11"), int64(300))
	assert.Equal(t, len(bad), 0)
	assert.Equal(t, rec.Date, any("2025-01-01"))
	assert.Equal(t, rec.Open, float64(10))
	assert.Equal(t, rec.High, 12.5)
	assert.Equal(t, rec.Low, float64(9))
	assert.Equal(t, rec.Close, float64(11))
	assert.NotNil(t, rec.Volume)
	assert.Equal(t, *rec.Volume, float64(300))

	rec, bad = newRecord([]byte("2025-01-02"), "ten", 12.5, 9.0, 11.0, nil)
	assert.Equal(t, rec.Date, any("2025-01-02"))
	assert.True(t, math.IsNaN(rec.Open))
	assert.Nil(t, rec.Volume)
	assert.Equal(t, len(bad), 1)
	assert.Equal(t, bad[0], openColumn)

	rec, bad = newRecord(json.Number("1735689600"), 1.0, 1.0, 1.0, 1.0, "lots")
	assert.Equal(t, rec.Date, any(float64(1735689600)))
	assert.Nil(t, rec.Volume)
	assert.Equal(t, len(bad), 1)
	assert.Equal(t, bad[0], volumeColumn)
}
