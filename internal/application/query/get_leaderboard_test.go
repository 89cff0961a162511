package query_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func seedPlayer(t *testing.T, repo *memory.PlayerRepository, id, handle, alias string) {
	t.Helper()
	username, err := player.NewUsername(handle)
	require.NoError(t, err)
	p := player.NewPlayer(id, 0, username, fixedNow)
	p.Alias = alias
	require.NoError(t, repo.Create(context.Background(), p))
}

func seedSeason(t *testing.T, repo *memory.SeasonRepository, id season.ID, rows map[string]season.PlayerStats) *season.Stats {
	t.Helper()
	stats := season.NewStats(id, fixedNow)
	for playerID, r := range rows {
		stats.UpsertRaw(playerID, r.EloGains, r.MatchesPlayed, r.DryWins, r.TotalWins, r.LongestStreak, fixedNow)
	}
	for playerID, total := range season.ComputeTotalPoints(stats) {
		stats.SetPoints(playerID, total, fixedNow)
	}
	require.NoError(t, repo.Save(context.Background(), stats))
	return stats
}

func TestGetLeaderboardHandler_RanksAllCategories(t *testing.T) {
	players := memory.NewPlayerRepository()
	seasons := memory.NewSeasonRepository()
	seedPlayer(t, players, "ann", "ann", "Аня")
	seedPlayer(t, players, "bob", "bob", "")

	seedSeason(t, seasons, "2025-03", map[string]season.PlayerStats{
		"ann": {EloGains: 48, MatchesPlayed: 5, DryWins: 1, TotalWins: 4, LongestStreak: 3},
		"bob": {EloGains: 10, MatchesPlayed: 5, DryWins: 0, TotalWins: 1, LongestStreak: 1},
	})

	h := query.NewGetLeaderboardHandler(seasons, players, nil, 0, slog.Default())
	result, err := h.Handle(context.Background(), query.GetLeaderboardQuery{SeasonID: "2025-03"})
	require.NoError(t, err)

	assert.Equal(t, "2025-03", result.SeasonID)
	require.Len(t, result.Summary, 2)
	assert.Equal(t, "ann", result.Summary[0].PlayerID)
	assert.Equal(t, "Аня", result.Summary[0].DisplayName)
	assert.Equal(t, 1, result.Summary[0].Rank)
	// ann tops four categories (3 pts each) and ties matches played (3 pts
	// shared): 15 total. bob: 4 * 2 + 3 = 11.
	assert.Equal(t, 15, result.Summary[0].Value)
	assert.Equal(t, 11, result.Summary[1].Value)

	require.Len(t, result.Categories.EloGains, 2)
	assert.Equal(t, 48, result.Categories.EloGains[0].Value)
	// Tied category shares rank 1.
	assert.Equal(t, 1, result.Categories.MatchesPlayed[0].Rank)
	assert.Equal(t, 1, result.Categories.MatchesPlayed[1].Rank)
}

func TestGetLeaderboardHandler_EmptySeason(t *testing.T) {
	players := memory.NewPlayerRepository()
	seasons := memory.NewSeasonRepository()

	h := query.NewGetLeaderboardHandler(seasons, players, nil, 0, slog.Default())
	result, err := h.Handle(context.Background(), query.GetLeaderboardQuery{SeasonID: "2019-07"})
	require.NoError(t, err)

	// Untouched seasons answer with empty lists, never an error.
	assert.NotNil(t, result.Summary)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.Categories.EloGains)
	assert.Empty(t, result.Categories.LongestStreak)
}

func TestGetLeaderboardHandler_RejectsBadSeasonID(t *testing.T) {
	h := query.NewGetLeaderboardHandler(memory.NewSeasonRepository(), memory.NewPlayerRepository(), nil, 0, slog.Default())
	_, err := h.Handle(context.Background(), query.GetLeaderboardQuery{SeasonID: "march-2025"})
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestGetPlayerStatsHandler_CardWithAndWithoutStats(t *testing.T) {
	players := memory.NewPlayerRepository()
	seasons := memory.NewSeasonRepository()
	seedPlayer(t, players, "ann", "ann", "")

	h := query.NewGetPlayerStatsHandler(players, seasons, slog.Default())

	// Registered player, season untouched: card with zero counters.
	result, err := h.Handle(context.Background(), query.GetPlayerStatsQuery{Username: "ann", SeasonID: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, "ann", result.PlayerID)
	assert.Equal(t, 1000, result.CurrentElo)
	assert.Zero(t, result.MatchesPlayed)
	assert.Zero(t, result.TotalPoints)

	seedSeason(t, seasons, "2025-03", map[string]season.PlayerStats{
		"ann": {EloGains: 32, MatchesPlayed: 2, TotalWins: 2, LongestStreak: 2},
	})
	result, err = h.Handle(context.Background(), query.GetPlayerStatsQuery{Username: "ann", SeasonID: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 32, result.EloGains)
	assert.Equal(t, 2, result.MatchesPlayed)
	assert.Equal(t, 2, result.LongestStreak)
}

func TestGetPlayerStatsHandler_UnknownPlayer(t *testing.T) {
	h := query.NewGetPlayerStatsHandler(memory.NewPlayerRepository(), memory.NewSeasonRepository(), slog.Default())
	_, err := h.Handle(context.Background(), query.GetPlayerStatsQuery{Username: "ghost", SeasonID: "2025-03"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestGetSeasonWinnersHandler_Podium(t *testing.T) {
	players := memory.NewPlayerRepository()
	seasons := memory.NewSeasonRepository()
	for _, id := range []string{"ann", "bob", "cyd", "dan"} {
		seedPlayer(t, players, id, id, "")
	}
	stats := season.NewStats("2025-02", fixedNow)
	for playerID, points := range map[string]int{"ann": 12, "bob": 9, "cyd": 5, "dan": 1} {
		stats.UpsertRaw(playerID, 0, 1, 0, 0, 0, fixedNow)
		stats.SetPoints(playerID, points, fixedNow)
	}
	require.NoError(t, seasons.Save(context.Background(), stats))

	h := query.NewGetSeasonWinnersHandler(seasons, players, slog.Default())
	result, err := h.Handle(context.Background(), query.GetSeasonWinnersQuery{SeasonID: "2025-02"})
	require.NoError(t, err)

	require.Len(t, result.Winners, 3)
	assert.Equal(t, "ann", result.Winners[0].PlayerID)
	assert.Equal(t, 12, result.Winners[0].Value)
	assert.Equal(t, "cyd", result.Winners[2].PlayerID)
}

func TestGetSeasonWinnersHandler_EmptySeason(t *testing.T) {
	h := query.NewGetSeasonWinnersHandler(memory.NewSeasonRepository(), memory.NewPlayerRepository(), slog.Default())
	result, err := h.Handle(context.Background(), query.GetSeasonWinnersQuery{SeasonID: "2019-01"})
	require.NoError(t, err)
	assert.Empty(t, result.Winners)
}
