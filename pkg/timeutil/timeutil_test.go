package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfMonth(t *testing.T) {
	mid := time.Date(2024, time.March, 15, 18, 30, 0, 0, OfficeTZ)
	assert.Equal(t, Date(2024, 3, 1), StartOfMonth(mid))
}

func TestStartOfNextMonth_YearWrap(t *testing.T) {
	dec := time.Date(2024, time.December, 31, 23, 0, 0, 0, OfficeTZ)
	assert.Equal(t, Date(2025, 1, 1), StartOfNextMonth(dec))
}

func TestIsSameMonth_AcrossTimezones(t *testing.T) {
	// 22:00 UTC on Jan 31 is already Feb 1 in the office timezone.
	utc := time.Date(2024, time.January, 31, 22, 0, 0, 0, time.UTC)
	feb := Date(2024, 2, 15)
	assert.True(t, IsSameMonth(utc, feb))

	jan := Date(2024, 1, 15)
	assert.False(t, IsSameMonth(utc, jan))
}

func TestIsFirstDayOfMonth(t *testing.T) {
	assert.True(t, IsFirstDayOfMonth(Date(2024, 3, 1)))
	assert.False(t, IsFirstDayOfMonth(Date(2024, 3, 2)))

	// First-of-month is decided in the office timezone, not UTC.
	utcEvening := time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC)
	assert.True(t, IsFirstDayOfMonth(utcEvening))
}

func TestEndOfMonth(t *testing.T) {
	end := EndOfMonth(Date(2024, 2, 10))
	assert.Equal(t, StartOfMonth(Date(2024, 3, 1)).Add(-time.Nanosecond), end)
}
