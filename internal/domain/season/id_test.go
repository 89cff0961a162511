package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("2024-01")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01", id.String())

	for _, bad := range []string{"", "2024", "2024-1", "2024-13", "2024-00", "24-01", "2024/01"} {
		_, err := ParseID(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestID_NextAndPrevious(t *testing.T) {
	assert.Equal(t, ID("2024-02"), ID("2024-01").Next())
	assert.Equal(t, ID("2023-12"), ID("2024-01").Previous())

	// December wraps into January of the next year and back.
	assert.Equal(t, ID("2025-01"), ID("2024-12").Next())
	assert.Equal(t, ID("2024-12"), ID("2025-01").Previous())

	assert.Equal(t, ID("2024-07"), ID("2024-06").Next())
	assert.Equal(t, ID("2024-05"), ID("2024-06").Previous())
}

func TestOf(t *testing.T) {
	jan := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, ID("2024-01"), Of(jan))

	dec := time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, ID("2024-12"), Of(dec))
	assert.Equal(t, ID("2025-01"), Of(dec).Next())

	// The office timezone decides the month: late UTC evening on the 31st
	// is already the next month there.
	newYearEve := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, ID("2025-01"), Of(newYearEve))
}

func TestID_Start(t *testing.T) {
	start := ID("2024-03").Start(time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), start)
}
