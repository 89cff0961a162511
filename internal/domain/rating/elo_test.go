package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTeamChanges_EqualRatings(t *testing.T) {
	res := ComputeTeamChanges([2]int{1000, 1000}, [2]int{1000, 1000}, Team1)

	// Equal teams: expectation is exactly 50/50, winner gains K/2 = 16.
	assert.InDelta(t, 0.5, res.ExpectedTeam1Score, 1e-9)
	assert.Equal(t, [2]int{16, 16}, res.Team1Changes)
	assert.Equal(t, [2]int{-16, -16}, res.Team2Changes)
	assert.Equal(t, [2]int{1016, 1016}, res.NewTeam1Ratings)
	assert.Equal(t, [2]int{984, 984}, res.NewTeam2Ratings)

	// Symmetry law: winner change mirrors loser change exactly.
	assert.Equal(t, res.Team1Changes[0], -res.Team2Changes[0])
}

func TestComputeTeamChanges_UnderdogWins(t *testing.T) {
	res := ComputeTeamChanges([2]int{900, 900}, [2]int{1100, 1100}, Team1)

	// The underdog's expected score is well below one half.
	assert.Less(t, res.ExpectedTeam1Score, 0.5)

	// Upset win pays more than 16, mirrored loss costs the same.
	assert.Greater(t, res.Team1Changes[0], 16)
	assert.Equal(t, res.Team1Changes[0], -res.Team2Changes[0])
}

func TestComputeTeamChanges_FavoriteWins(t *testing.T) {
	res := ComputeTeamChanges([2]int{1200, 1200}, [2]int{1000, 1000}, Team1)

	// A favorite gets a small positive gain, the losers a small loss.
	assert.Greater(t, res.Team1Changes[0], 0)
	assert.Less(t, res.Team1Changes[0], 16)
	assert.Less(t, res.Team2Changes[0], 0)
}

func TestComputeTeamChanges_Team2Wins(t *testing.T) {
	res := ComputeTeamChanges([2]int{1000, 1000}, [2]int{1000, 1000}, Team2)

	assert.Equal(t, [2]int{-16, -16}, res.Team1Changes)
	assert.Equal(t, [2]int{16, 16}, res.Team2Changes)
}

func TestComputeTeamChanges_SameTeamDeltaAppliedToBothMembers(t *testing.T) {
	// Mixed ratings within a team: both members receive the same float
	// delta; only per-member rounding may differ.
	res := ComputeTeamChanges([2]int{950, 1050}, [2]int{1000, 1000}, Team1)

	diff := res.Team1Changes[0] - res.Team1Changes[1]
	assert.LessOrEqual(t, diff, 1)
	assert.GreaterOrEqual(t, diff, -1)

	// Team average behaves like a single 1000-rated opponent.
	assert.InDelta(t, 0.5, res.ExpectedTeam1Score, 1e-9)
}

func TestComputeTeamChanges_ExpectedScoresSumToOne(t *testing.T) {
	res := ComputeTeamChanges([2]int{1234, 987}, [2]int{1111, 1400}, Team2)
	res2 := ComputeTeamChanges([2]int{1111, 1400}, [2]int{1234, 987}, Team1)

	assert.InDelta(t, 1.0, res.ExpectedTeam1Score+res2.ExpectedTeam1Score, 1e-9)
}

func TestComputeTeamChanges_Pure(t *testing.T) {
	team1 := [2]int{1000, 1100}
	team2 := [2]int{1200, 900}

	first := ComputeTeamChanges(team1, team2, Team1)
	second := ComputeTeamChanges(team1, team2, Team1)

	assert.Equal(t, first, second)
	assert.Equal(t, [2]int{1000, 1100}, team1, "inputs must not be mutated")
}
