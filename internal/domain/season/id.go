// Package season contains the season statistics domain: the season
// identifier, the per-player aggregate, the points ranking and the
// aggregation engine that re-derives statistics from the match ledger.
package season

import (
	"fmt"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON ID VALUE OBJECT
// A season is one calendar month, identified as "YYYY-MM".
// ══════════════════════════════════════════════════════════════════════════════

// ID identifies a season (YYYY-MM).
type ID string

// ParseID validates and returns a season ID.
func ParseID(s string) (ID, error) {
	if !match.IsValidSeasonID(s) {
		return "", shared.ErrInvalidSeasonID
	}
	return ID(s), nil
}

// Of returns the season the given moment belongs to. Season boundaries
// are office-timezone month boundaries, whatever location t carries.
func Of(t time.Time) ID {
	local := timeutil.ToOffice(t)
	return ID(fmt.Sprintf("%04d-%02d", local.Year(), int(local.Month())))
}

// IsValid reports whether the ID is well-formed.
func (id ID) IsValid() bool {
	return match.IsValidSeasonID(string(id))
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// yearMonth parses the components. The ID must be valid.
func (id ID) yearMonth() (int, time.Month) {
	var year, month int
	fmt.Sscanf(string(id), "%04d-%02d", &year, &month)
	return year, time.Month(month)
}

// Next returns the following season, wrapping December into January of
// the next year.
func (id ID) Next() ID {
	year, month := id.yearMonth()
	if month == time.December {
		return ID(fmt.Sprintf("%04d-01", year+1))
	}
	return ID(fmt.Sprintf("%04d-%02d", year, int(month)+1))
}

// Previous returns the preceding season, wrapping January into December of
// the previous year.
func (id ID) Previous() ID {
	year, month := id.yearMonth()
	if month == time.January {
		return ID(fmt.Sprintf("%04d-12", year-1))
	}
	return ID(fmt.Sprintf("%04d-%02d", year, int(month)-1))
}

// Start returns the first instant of the season in the given location.
func (id ID) Start(loc *time.Location) time.Time {
	year, month := id.yearMonth()
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}
