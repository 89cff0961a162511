package command_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
)

type recordFixture struct {
	players *memory.PlayerRepository
	matches *memory.MatchRepository
	seasons *memory.SeasonRepository
	handler *command.RecordMatchHandler
	now     time.Time
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	seasons := memory.NewSeasonRepository()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	agg := season.NewAggregator(seasons, matches, players).WithClock(func() time.Time { return now })
	handler := command.NewRecordMatchHandler(players, matches, agg, nil, slog.Default()).
		WithClock(func() time.Time { return now })
	return &recordFixture{
		players: players,
		matches: matches,
		seasons: seasons,
		handler: handler,
		now:     now,
	}
}

func (f *recordFixture) addPlayer(t *testing.T, id, handle string) {
	t.Helper()
	username, err := player.NewUsername(handle)
	require.NoError(t, err)
	p := player.NewPlayer(id, 0, username, f.now)
	require.NoError(t, f.players.Create(context.Background(), p))
}

func TestRecordMatchHandler_FirstMatchOfSeason(t *testing.T) {
	f := newRecordFixture(t)
	ctx := context.Background()
	for _, p := range []struct{ id, handle string }{
		{"ann", "ann"}, {"bob", "bob"}, {"cyd", "cyd"}, {"dan", "dan"},
	} {
		f.addPlayer(t, p.id, p.handle)
	}

	result, err := f.handler.Handle(ctx, command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "dan"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	// Season defaults to the month of the submission clock.
	assert.Equal(t, "2025-03", result.SeasonID)

	// Equal 1000 ratings: the favorite maths collapses to a flat ±16.
	for _, w := range result.Winners {
		assert.Equal(t, 1000, w.OldElo)
		assert.Equal(t, 1016, w.NewElo)
		assert.Equal(t, 16, w.Change)
	}
	for _, l := range result.Losers {
		assert.Equal(t, 984, l.NewElo)
		assert.Equal(t, -16, l.Change)
	}

	// Ratings are persisted, not just reported.
	ann, err := f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, 1016, ann.CurrentElo.Int())

	// Baselines were written before the deltas, so the whole increase is
	// season gains.
	start, ok := ann.SeasonStart("2025-03")
	require.True(t, ok)
	assert.Equal(t, 1000, start)
	assert.Equal(t, 16, ann.SeasonEloGains("2025-03"))

	// The match is durable in the ledger.
	count, err := f.matches.CountBySeason(ctx, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Season stats exist for all four players, winners share rank 1.
	stats, err := f.seasons.Get(ctx, season.ID("2025-03"))
	require.NoError(t, err)
	annStats, ok := stats.Get("ann")
	require.True(t, ok)
	assert.Equal(t, 16, annStats.EloGains)
	assert.Equal(t, 1, annStats.MatchesPlayed)
	assert.Equal(t, 1, annStats.TotalWins)
	assert.Equal(t, 1, annStats.LongestStreak)

	summary := season.RankSummary(stats)
	require.Len(t, summary, 4)
	assert.Equal(t, 1, summary[0].Rank)
	assert.Equal(t, 1, summary[1].Rank)
}

func TestRecordMatchHandler_ExplicitSeason(t *testing.T) {
	f := newRecordFixture(t)
	for _, id := range []string{"ann", "bob", "cyd", "dan"} {
		f.addPlayer(t, id, id)
	}

	result, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "dan"},
		SeasonID:  "2025-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01", result.SeasonID)
}

func TestRecordMatchHandler_ExplicitDryWin(t *testing.T) {
	f := newRecordFixture(t)
	for _, id := range []string{"ann", "bob", "cyd", "dan"} {
		f.addPlayer(t, id, id)
	}

	result, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs:   [2]string{"ann", "bob"},
		LoserIDs:    [2]string{"cyd", "dan"},
		IsDryWin:    true,
		DryWinKnown: true,
	})
	require.NoError(t, err)
	assert.True(t, result.IsDryWin)

	stats, err := f.seasons.Get(context.Background(), season.ID("2025-03"))
	require.NoError(t, err)
	annStats, _ := stats.Get("ann")
	assert.Equal(t, 1, annStats.DryWins)
	// Losers never accumulate dry wins.
	cydStats, _ := stats.Get("cyd")
	assert.Equal(t, 0, cydStats.DryWins)
}

func TestRecordMatchHandler_HeuristicDryWin(t *testing.T) {
	// Equal teams lose 16 each, past the heuristic threshold, so an
	// unanswered dialog still marks the win dry.
	f := newRecordFixture(t)
	for _, id := range []string{"ann", "bob", "cyd", "dan"} {
		f.addPlayer(t, id, id)
	}

	result, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "dan"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsDryWin)
}

func TestRecordMatchHandler_RejectsDuplicatePlayers(t *testing.T) {
	f := newRecordFixture(t)
	for _, id := range []string{"ann", "bob", "cyd"} {
		f.addPlayer(t, id, id)
	}

	_, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "ann"},
	})
	assert.ErrorIs(t, err, shared.ErrDuplicatePlayers)

	// Nothing was written.
	count, err := f.matches.CountBySeason(context.Background(), "2025-03")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordMatchHandler_RejectsUnknownPlayer(t *testing.T) {
	f := newRecordFixture(t)
	for _, id := range []string{"ann", "bob", "cyd"} {
		f.addPlayer(t, id, id)
	}

	_, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "ghost"},
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))

	// An unknown identity rejects the submission before any mutation.
	ann, err := f.players.GetByID(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, 1000, ann.CurrentElo.Int())
}

func TestRecordMatchHandler_RejectsBadSeasonID(t *testing.T) {
	f := newRecordFixture(t)
	_, err := f.handler.Handle(context.Background(), command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "dan"},
		SeasonID:  "2025-13",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidSeasonID)
}

func TestRecordMatchHandler_SecondMatchKeepsBaseline(t *testing.T) {
	f := newRecordFixture(t)
	ctx := context.Background()
	for _, id := range []string{"ann", "bob", "cyd", "dan"} {
		f.addPlayer(t, id, id)
	}

	cmd := command.RecordMatchCommand{
		WinnerIDs: [2]string{"ann", "bob"},
		LoserIDs:  [2]string{"cyd", "dan"},
	}
	_, err := f.handler.Handle(ctx, cmd)
	require.NoError(t, err)
	_, err = f.handler.Handle(ctx, cmd)
	require.NoError(t, err)

	ann, err := f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	start, _ := ann.SeasonStart("2025-03")
	assert.Equal(t, 1000, start, "baseline is written once per season")
	assert.Equal(t, ann.CurrentElo.Int()-1000, ann.SeasonEloGains("2025-03"))

	stats, err := f.seasons.Get(ctx, season.ID("2025-03"))
	require.NoError(t, err)
	annStats, _ := stats.Get("ann")
	assert.Equal(t, 2, annStats.MatchesPlayed)
	assert.Equal(t, 2, annStats.LongestStreak)
}
