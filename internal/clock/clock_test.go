package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_CrossTimezone(t *testing.T) {
	// UTCの 2025-06-14 18:30 はタイでは 06-15 01:30
	utc := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, time.June, start.Month())
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())

	_, offset := start.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestEndOfDay(t *testing.T) {
	ict := time.Date(2025, 6, 15, 12, 0, 0, 0, Location())

	end := EndOfDay(ict)
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, int(999*time.Millisecond), end.Nanosecond())
}

func TestDayKey(t *testing.T) {
	// ホストTZに関係なくタイの暦日でキーを作る
	utc := time.Date(2025, 6, 14, 17, 5, 0, 0, time.UTC)
	assert.Equal(t, "20250615", DayKey(utc))

	ict := time.Date(2025, 6, 15, 0, 5, 0, 0, Location())
	assert.Equal(t, "20250615", DayKey(ict))
}

func TestMonthRange(t *testing.T) {
	ict := time.Date(2025, 6, 15, 12, 0, 0, 0, Location())

	start, end := MonthRange(ict)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, Location()), start)
	assert.Equal(t, time.June, end.Month())
	assert.Equal(t, 30, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestParseMonth(t *testing.T) {
	start, err := ParseMonth("2025-06")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, Location()), start)

	_, err = ParseMonth("2025/06")
	assert.Error(t, err)
}

func TestToCivilISO(t *testing.T) {
	utc := time.Date(2025, 6, 15, 5, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-15T12:30:00.000+07:00", ToCivilISO(utc))
}

func TestFixedClock(t *testing.T) {
	utc := time.Date(2025, 6, 15, 5, 30, 0, 0, time.UTC)
	c := Fixed{T: utc}
	assert.Equal(t, 12, c.Now().Hour())
	assert.True(t, c.Now().Equal(utc))
}
