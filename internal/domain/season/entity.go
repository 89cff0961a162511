package season

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON STATS AGGREGATE
// The aggregate is a materialization of the match ledger filtered to one
// season, plus each player's season-start and current Elo. It is a cache,
// never a source of truth: any entry can be rebuilt from the ledger.
// ══════════════════════════════════════════════════════════════════════════════

// PlayerStats is one player's aggregate record within a season.
type PlayerStats struct {
	// PlayerID is the player's internal ID.
	PlayerID string

	// EloGains is the rating gained since season start, clamped at zero.
	EloGains int

	// MatchesPlayed is the number of season matches with this player on
	// either side.
	MatchesPlayed int

	// DryWins counts won matches where the losers did not score.
	DryWins int

	// TotalWins counts won matches.
	TotalWins int

	// LongestStreak is the longest run of consecutive wins, chronological.
	LongestStreak int

	// TotalPoints is derived by the points ranking over all five
	// categories. Recomputed for every player after each recorded match.
	TotalPoints int
}

// Stats holds the per-player aggregates of one season.
type Stats struct {
	// SeasonID identifies the season (YYYY-MM).
	SeasonID ID

	// PlayerStats maps player ID to the aggregate record.
	PlayerStats map[string]*PlayerStats

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStats creates an empty aggregate for a season.
func NewStats(id ID, now time.Time) *Stats {
	return &Stats{
		SeasonID:    id,
		PlayerStats: make(map[string]*PlayerStats),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// get returns the player's record, creating an empty one on first touch.
func (s *Stats) get(playerID string) *PlayerStats {
	if s.PlayerStats == nil {
		s.PlayerStats = make(map[string]*PlayerStats)
	}
	ps, ok := s.PlayerStats[playerID]
	if !ok {
		ps = &PlayerStats{PlayerID: playerID}
		s.PlayerStats[playerID] = ps
	}
	return ps
}

// UpsertRaw updates a player's raw category fields in place, preserving the
// previously computed TotalPoints. The points recompute runs separately over
// the whole season so that untouched players get re-ranked too.
func (s *Stats) UpsertRaw(playerID string, eloGains, matchesPlayed, dryWins, totalWins, longestStreak int, now time.Time) {
	ps := s.get(playerID)
	ps.EloGains = eloGains
	ps.MatchesPlayed = matchesPlayed
	ps.DryWins = dryWins
	ps.TotalWins = totalWins
	ps.LongestStreak = longestStreak
	s.UpdatedAt = now
}

// SetPoints updates a player's total points, preserving the raw fields.
func (s *Stats) SetPoints(playerID string, points int, now time.Time) {
	ps := s.get(playerID)
	ps.TotalPoints = points
	s.UpdatedAt = now
}

// Get returns a player's record and whether it exists.
func (s *Stats) Get(playerID string) (*PlayerStats, bool) {
	ps, ok := s.PlayerStats[playerID]
	return ps, ok
}

// PlayerIDs returns the IDs of every player with a record this season.
func (s *Stats) PlayerIDs() []string {
	ids := make([]string, 0, len(s.PlayerStats))
	for id := range s.PlayerStats {
		ids = append(ids, id)
	}
	return ids
}

// IsEmpty reports whether no player has touched the season yet.
func (s *Stats) IsEmpty() bool {
	return len(s.PlayerStats) == 0
}
