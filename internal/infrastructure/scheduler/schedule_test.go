package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthlySchedule_Next(t *testing.T) {
	loc := time.FixedZone("office", 3*60*60)
	s := NewMonthlySchedule(0, 5, loc)

	// Mid-month points at the first of the following month.
	mid := time.Date(2024, time.March, 15, 10, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 5, 0, 0, loc), s.Next(mid))

	// On the first day before the firing time, it fires the same day.
	early := time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 5, 0, 0, loc), s.Next(early))

	// At exactly the firing time the next run is a month later.
	exact := time.Date(2024, time.March, 1, 0, 5, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 5, 0, 0, loc), s.Next(exact))

	// December wraps into January.
	dec := time.Date(2024, time.December, 20, 12, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 5, 0, 0, loc), s.Next(dec))
}

func TestMonthlySchedule_NextConvertsLocation(t *testing.T) {
	loc := time.FixedZone("office", 3*60*60)
	s := NewMonthlySchedule(0, 5, loc)

	// 20:00 UTC on Jan 31 is 23:00 Jan 31 in the office timezone, so the
	// next firing is Feb 1 00:05 office time.
	utcEvening := time.Date(2024, time.January, 31, 20, 0, 0, 0, time.UTC)
	next := s.Next(utcEvening)
	assert.True(t, next.Equal(time.Date(2024, time.February, 1, 0, 5, 0, 0, loc)))
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(time.Hour)
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Hour), s.Next(now))
}
