package scheduler

import (
	"fmt"
	"time"
)

// MonthlySchedule fires once a month: on the first day at the given hour
// and minute, in the given location. The season rollover runs on it, so
// the location must be the office timezone that defines season boundaries.
type MonthlySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// NewMonthlySchedule creates a new MonthlySchedule.
func NewMonthlySchedule(hour, minute int, loc *time.Location) *MonthlySchedule {
	if loc == nil {
		loc = time.UTC
	}
	return &MonthlySchedule{Hour: hour, Minute: minute, Location: loc}
}

// Next returns the first-of-month firing time strictly after t.
func (s *MonthlySchedule) Next(t time.Time) time.Time {
	local := t.In(s.Location)
	next := time.Date(local.Year(), local.Month(), 1, s.Hour, s.Minute, 0, 0, s.Location)
	if !next.After(local) {
		next = next.AddDate(0, 1, 0)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *MonthlySchedule) String() string {
	return fmt.Sprintf("@monthly day=1 %02d:%02d %s", s.Hour, s.Minute, s.Location.String())
}

// IntervalSchedule fires at a fixed interval. The season repair job runs
// on it.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: interval}
}

// Next returns the next firing time after t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}
