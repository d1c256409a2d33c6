package shared

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339 with offset",
			input: "2025-02-03T10:30:00+02:00",
			want:  time.Date(2025, 2, 3, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with fraction",
			input: "2025-02-03T10:30:00.250Z",
			want:  time.Date(2025, 2, 3, 10, 30, 0, 250000000, time.UTC),
		},
		{
			name:  "date layout",
			input: "2025-02-03 10:30:00",
			want:  time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "zoneless iso",
			input: "2025-02-03T10:30:00",
			want:  time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "day",
			input: " 2025-02-03 ",
			want:  time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
	}

	for _, test := range tests {
		dt, err := ParseDate(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !dt.Equal(test.want) || dt.Location() != time.UTC {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, dt)
		}
	}
}

func TestTimeUnit(t *testing.T) {
	unit, err := ParseTimeUnit("ms")
	assert.NoError(t, err)
	assert.Equal(t, unit, Milliseconds)

	unit, err = ParseTimeUnit("Seconds")
	assert.NoError(t, err)
	assert.Equal(t, unit, Seconds)

	unit, err = ParseTimeUnit("")
	assert.NoError(t, err)
	assert.Equal(t, unit, NoUnit)

	_, err = ParseTimeUnit("fortnights")
	assert.Error(t, err)

	assert.Equal(t, Seconds.String(), "s")
	assert.Equal(t, Milliseconds.String(), "ms")
	assert.Equal(t, NoUnit.String(), "none")

	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, Seconds.FromUnix(float64(want.Unix())).Equal(want))
	assert.True(t, Milliseconds.FromUnix(float64(want.UnixMilli())).Equal(want))
	assert.Equal(t, Seconds.FromUnix(1.5).Nanosecond(), 500000000)
}

func TestTimeKey(t *testing.T) {
	dt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	key := TimeKey(dt)
	assert.Equal(t, key, float64(dt.UnixMilli()))
	assert.True(t, KeyTime(key).Equal(dt))
	assert.True(t, KeyTime(key).Location() == time.UTC)
}
