package season

import (
	"cmp"
	"slices"
)

// ══════════════════════════════════════════════════════════════════════════════
// POINTS RANKING
// Converts per-player category values into ranks and points and combines the
// five fixed categories into one total-points ranking.
//
// Point scale: rank 1 = 3 points, rank 2 = 2, rank 3 = 1, below = 0.
// Equal values share rank and points; ranks after a tie are not compressed
// (a 2-way tie for 1st is followed by rank 3, not rank 2).
// ══════════════════════════════════════════════════════════════════════════════

// Category names one of the five ranked statistics.
type Category string

const (
	CategoryEloGains      Category = "elo_gains"
	CategoryMatchesPlayed Category = "matches_played"
	CategoryDryWins       Category = "dry_wins"
	CategoryTotalWins     Category = "total_wins"
	CategoryLongestStreak Category = "longest_streak"
)

// Categories lists the five fixed categories in presentation order.
var Categories = []Category{
	CategoryEloGains,
	CategoryMatchesPlayed,
	CategoryDryWins,
	CategoryTotalWins,
	CategoryLongestStreak,
}

// topRankPoints is the award for rank 1; rank r <= 3 earns topRankPoints+1-r.
const topRankPoints = 3

// RankedEntry is an ephemeral, derived ranking row. Not persisted.
type RankedEntry struct {
	// Rank is the 1-based position; tied entries share a rank.
	Rank int

	// PlayerID is the ranked player.
	PlayerID string

	// Value is the category value (or total points in the summary).
	Value int

	// Points is the award for this rank in a category ranking.
	Points int
}

// CategoryValue extracts a category's value from a player record.
func CategoryValue(ps *PlayerStats, c Category) int {
	switch c {
	case CategoryEloGains:
		return ps.EloGains
	case CategoryMatchesPlayed:
		return ps.MatchesPlayed
	case CategoryDryWins:
		return ps.DryWins
	case CategoryTotalWins:
		return ps.TotalWins
	case CategoryLongestStreak:
		return ps.LongestStreak
	default:
		return 0
	}
}

// RankByValue ranks entries by value descending and attaches points.
//
// The input order does not matter; entries with equal values are ordered by
// player ID so the output is deterministic.
func RankByValue(entries []RankedEntry) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	copy(ranked, entries)

	slices.SortFunc(ranked, func(a, b RankedEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	for i := range ranked {
		if i > 0 && ranked[i].Value == ranked[i-1].Value {
			// Tie: share the rank and points of the entry that set it.
			ranked[i].Rank = ranked[i-1].Rank
			ranked[i].Points = ranked[i-1].Points
			continue
		}
		rank := i + 1
		ranked[i].Rank = rank
		ranked[i].Points = pointsForRank(rank)
	}
	return ranked
}

// pointsForRank maps a rank to its point award.
func pointsForRank(rank int) int {
	if rank > topRankPoints {
		return 0
	}
	return topRankPoints + 1 - rank
}

// RankCategory ranks every player of the season in one category.
func RankCategory(s *Stats, c Category) []RankedEntry {
	entries := make([]RankedEntry, 0, len(s.PlayerStats))
	for id, ps := range s.PlayerStats {
		entries = append(entries, RankedEntry{PlayerID: id, Value: CategoryValue(ps, c)})
	}
	return RankByValue(entries)
}

// ComputeTotalPoints sums each player's category points across the five
// fixed categories and returns the totals keyed by player ID.
func ComputeTotalPoints(s *Stats) map[string]int {
	totals := make(map[string]int, len(s.PlayerStats))
	for id := range s.PlayerStats {
		totals[id] = 0
	}
	for _, c := range Categories {
		for _, e := range RankCategory(s, c) {
			totals[e.PlayerID] += e.Points
		}
	}
	return totals
}

// RankSummary returns the season's total-points ranking, descending.
//
// Ties on total points share a rank; the secondary ordering key is the
// player ID, which makes the summary deterministic (the point scale defines
// no further tie-break).
func RankSummary(s *Stats) []RankedEntry {
	entries := make([]RankedEntry, 0, len(s.PlayerStats))
	for id, ps := range s.PlayerStats {
		entries = append(entries, RankedEntry{PlayerID: id, Value: ps.TotalPoints})
	}
	ranked := RankByValue(entries)
	// Points have no meaning in the summary row; the value is the total.
	for i := range ranked {
		ranked[i].Points = 0
	}
	return ranked
}

// TopN returns the first n summary entries (fewer when the season has fewer
// ranked players, empty when none).
func TopN(s *Stats, n int) []RankedEntry {
	summary := RankSummary(s)
	if len(summary) > n {
		summary = summary[:n]
	}
	return summary
}
