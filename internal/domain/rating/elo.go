// Package rating implements the Elo rating calculation for 2-vs-2 matches.
// Pure functions, no I/O and no side effects; mutation of player entities
// happens in the application layer.
package rating

import (
	"math"
)

// KFactor controls rating change sensitivity. Fixed for the whole league.
const KFactor = 32

// Team identifies one of the two sides of a match.
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Result holds the outcome of a team Elo calculation.
type Result struct {
	// NewTeam1Ratings and NewTeam2Ratings are the post-match ratings,
	// member order preserved.
	NewTeam1Ratings [2]int
	NewTeam2Ratings [2]int

	// Team1Changes and Team2Changes are per-member signed deltas
	// (new rating minus old rating).
	Team1Changes [2]int
	Team2Changes [2]int

	// ExpectedTeam1Score is team 1's pre-match win probability.
	ExpectedTeam1Score float64
}

// ComputeTeamChanges calculates symmetric Elo changes for two 2-player teams.
//
// Team strength is the arithmetic mean of its members' ratings. The same
// scalar delta K*(actual-expected) applies to both members of a team; there
// is no intra-team adjustment by individual rating difference. Rounding is
// applied per member, so two equal-team members may end up with deltas that
// differ by one point when their old ratings differ in parity.
func ComputeTeamChanges(team1Ratings, team2Ratings [2]int, winner Team) Result {
	avg1 := float64(team1Ratings[0]+team1Ratings[1]) / 2
	avg2 := float64(team2Ratings[0]+team2Ratings[1]) / 2

	expected1 := expectedScore(avg1, avg2)
	expected2 := 1 - expected1

	actual1, actual2 := 0.0, 1.0
	if winner == Team1 {
		actual1, actual2 = 1.0, 0.0
	}

	delta1 := KFactor * (actual1 - expected1)
	delta2 := KFactor * (actual2 - expected2)

	res := Result{ExpectedTeam1Score: expected1}
	for i := 0; i < 2; i++ {
		res.NewTeam1Ratings[i] = roundRating(float64(team1Ratings[i]) + delta1)
		res.Team1Changes[i] = res.NewTeam1Ratings[i] - team1Ratings[i]

		res.NewTeam2Ratings[i] = roundRating(float64(team2Ratings[i]) + delta2)
		res.Team2Changes[i] = res.NewTeam2Ratings[i] - team2Ratings[i]
	}
	return res
}

// expectedScore is the standard Elo expectation for side A against side B.
func expectedScore(avgA, avgB float64) float64 {
	return 1 / (1 + math.Pow(10, (avgB-avgA)/400))
}

// roundRating rounds to the nearest integer rating.
func roundRating(r float64) int {
	return int(math.Round(r))
}
