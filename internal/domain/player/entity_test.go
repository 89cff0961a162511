package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUsername(t *testing.T) {
	u, err := NewUsername("  KickerKing ")
	assert.NoError(t, err)
	assert.Equal(t, Username("kickerking"), u)

	for _, bad := range []string{"", "a", "has space", "way-too-long-username-over-32-characters"} {
		_, err := NewUsername(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestElo_Apply_Floor(t *testing.T) {
	assert.Equal(t, Elo(1016), Elo(1000).Apply(16))
	assert.Equal(t, Elo(984), Elo(1000).Apply(-16))

	// Ratings never go below zero.
	assert.Equal(t, MinElo, Elo(10).Apply(-16))
	assert.Equal(t, MinElo, Elo(0).Apply(-1))
}

func TestPlayer_DisplayName(t *testing.T) {
	now := time.Now()
	p := NewPlayer("id1", 42, "kickerking", now)

	assert.Equal(t, "kickerking", p.DisplayName())
	p.Alias = "Король"
	assert.Equal(t, "Король", p.DisplayName())
}

func TestPlayer_EnsureSeasonStartElo_WriteOnce(t *testing.T) {
	p := NewPlayer("id1", 42, "kickerking", time.Now())

	assert.True(t, p.EnsureSeasonStartElo("2024-03"))
	start, ok := p.SeasonStart("2024-03")
	assert.True(t, ok)
	assert.Equal(t, 1000, start)

	// The rating changes, but the recorded baseline must not.
	p.ApplyEloChange(32, time.Now())
	assert.False(t, p.EnsureSeasonStartElo("2024-03"))
	start, _ = p.SeasonStart("2024-03")
	assert.Equal(t, 1000, start)

	// A new season gets its own baseline from the current rating.
	assert.True(t, p.EnsureSeasonStartElo("2024-04"))
	start, _ = p.SeasonStart("2024-04")
	assert.Equal(t, 1032, start)
}

func TestPlayer_SeasonEloGains_ClampedAtZero(t *testing.T) {
	p := NewPlayer("id1", 42, "kickerking", time.Now())
	p.EnsureSeasonStartElo("2024-03")

	p.ApplyEloChange(25, time.Now())
	assert.Equal(t, 25, p.SeasonEloGains("2024-03"))

	p.ApplyEloChange(-60, time.Now())
	assert.Equal(t, 0, p.SeasonEloGains("2024-03"))

	// Unknown season: no baseline, no gains.
	assert.Equal(t, 0, p.SeasonEloGains("2030-01"))
}

func TestPlayer_CanBeNotified(t *testing.T) {
	now := time.Now()
	assert.True(t, NewPlayer("id1", 42, "kickerking", now).CanBeNotified())
	assert.False(t, NewPlayer("id2", 0, "manual", now).CanBeNotified())
}
