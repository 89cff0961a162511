package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

func validMatch() *Match {
	return &Match{
		ID:               "m1",
		SeasonID:         "2024-03",
		Winners:          [2]string{"ann", "bob"},
		Losers:           [2]string{"cid", "dot"},
		WinnerEloChanges: [2]int{16, 16},
		LoserEloChanges:  [2]int{-16, -16},
		PlayedAt:         time.Now(),
	}
}

func TestMatch_Validate(t *testing.T) {
	assert.NoError(t, validMatch().Validate())
}

func TestMatch_Validate_BadSeason(t *testing.T) {
	m := validMatch()
	for _, bad := range []string{"", "2024", "2024-13", "march-2024"} {
		m.SeasonID = bad
		assert.ErrorIs(t, m.Validate(), shared.ErrInvalidFormat)
	}
}

func TestMatch_Validate_DuplicatePlayers(t *testing.T) {
	m := validMatch()
	m.Losers[1] = "ann"
	assert.ErrorIs(t, m.Validate(), shared.ErrInvalidInput)

	m = validMatch()
	m.Winners[1] = "ann"
	assert.ErrorIs(t, m.Validate(), shared.ErrInvalidInput)
}

func TestMatch_Validate_MissingPlayer(t *testing.T) {
	m := validMatch()
	m.Losers[0] = ""
	assert.ErrorIs(t, m.Validate(), shared.ErrInvalidInput)
}

func TestMatch_Sides(t *testing.T) {
	m := validMatch()

	assert.True(t, m.HasWinner("ann"))
	assert.False(t, m.HasWinner("cid"))
	assert.True(t, m.HasPlayer("cid"))
	assert.False(t, m.HasPlayer("eva"))
	assert.Equal(t, []string{"ann", "bob", "cid", "dot"}, m.PlayerIDs())
}

func TestDryWinByEloDelta(t *testing.T) {
	// Mean loser delta at or below -15 counts as a dry win.
	assert.True(t, DryWinByEloDelta([2]int{-16, -16}))
	assert.True(t, DryWinByEloDelta([2]int{-15, -15}))
	assert.True(t, DryWinByEloDelta([2]int{-14, -16}))

	assert.False(t, DryWinByEloDelta([2]int{-14, -14}))
	assert.False(t, DryWinByEloDelta([2]int{-10, -5}))
}

func TestIsValidSeasonID(t *testing.T) {
	assert.True(t, IsValidSeasonID("2024-01"))
	assert.True(t, IsValidSeasonID("1999-12"))
	assert.False(t, IsValidSeasonID("2024-0"))
	assert.False(t, IsValidSeasonID("2024-1 "))
}
