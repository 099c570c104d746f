package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// UTC 20:00 は東京では翌日
	ts := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01", Day(ts, time.UTC))
	assert.Equal(t, "2025-03-02", Day(ts, tokyo))
}

func TestManualAdvance(t *testing.T) {
	m := NewManual(time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC), nil)
	assert.Equal(t, "2025-03-01", m.Today())

	m.Advance(time.Hour)
	assert.Equal(t, "2025-03-02", m.Today())

	m.Set(time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-12-31", m.Today())
}

func TestRealDefaultsToUTC(t *testing.T) {
	var r Real
	assert.Equal(t, time.UTC, r.Now().Location())
}
