package season_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
)

const testSeason = "2024-03"

type fixture struct {
	players *memory.PlayerRepository
	matches *memory.MatchRepository
	seasons *memory.SeasonRepository
	agg     *season.Aggregator
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()
	f := &fixture{
		players: memory.NewPlayerRepository(),
		matches: memory.NewMatchRepository(),
		seasons: memory.NewSeasonRepository(),
	}
	f.agg = season.NewAggregator(f.seasons, f.matches, f.players)

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range usernames {
		u, err := player.NewUsername(name)
		require.NoError(t, err)
		p := player.NewPlayer(name, player.TelegramID(i+1), u, now)
		require.NoError(t, f.players.Create(context.Background(), p))
	}
	return f
}

// playMatch appends a ledger entry and applies its Elo deltas to the players,
// mirroring what the record-match command does before aggregation.
func (f *fixture) playMatch(t *testing.T, id string, winners, losers [2]string, dry bool, playedAt time.Time) *match.Match {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.agg.EnsureSeasonBaseline(ctx, testSeason, append(winners[:], losers[:]...)))

	m := &match.Match{
		ID:               id,
		SeasonID:         testSeason,
		Winners:          winners,
		Losers:           losers,
		WinnerEloChanges: [2]int{16, 16},
		LoserEloChanges:  [2]int{-16, -16},
		IsDryWin:         dry,
		PlayedAt:         playedAt,
	}
	require.NoError(t, f.matches.Append(ctx, m))

	for i, pid := range winners {
		f.applyElo(t, pid, m.WinnerEloChanges[i], playedAt)
	}
	for i, pid := range losers {
		f.applyElo(t, pid, m.LoserEloChanges[i], playedAt)
	}
	return m
}

func (f *fixture) applyElo(t *testing.T, playerID string, change int, now time.Time) {
	t.Helper()
	ctx := context.Background()
	p, err := f.players.GetByID(ctx, playerID)
	require.NoError(t, err)
	p.ApplyEloChange(change, now)
	require.NoError(t, f.players.Update(ctx, p))
}

func TestAggregator_SingleMatch(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()
	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	m := f.playMatch(t, "m1", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, false, at)

	stats, err := f.agg.RecomputeForMatch(ctx, m)
	require.NoError(t, err)

	for _, winner := range []string{"ann", "bob"} {
		ps, ok := stats.Get(winner)
		require.True(t, ok)
		assert.Equal(t, 1, ps.MatchesPlayed)
		assert.Equal(t, 1, ps.TotalWins)
		assert.Equal(t, 0, ps.DryWins)
		assert.Equal(t, 1, ps.LongestStreak)
		// Baseline was taken before the Elo deltas were applied, so the
		// gains equal the match's rating increase.
		assert.Equal(t, 16, ps.EloGains)
	}
	for _, loser := range []string{"cid", "dot"} {
		ps, ok := stats.Get(loser)
		require.True(t, ok)
		assert.Equal(t, 1, ps.MatchesPlayed)
		assert.Equal(t, 0, ps.TotalWins)
		// Below the season baseline shows 0 gains, never negative.
		assert.Equal(t, 0, ps.EloGains)
	}

	// Both winners tie for rank 1 in the summary.
	summary := season.RankSummary(stats)
	assert.Equal(t, 1, summary[0].Rank)
	assert.Equal(t, 1, summary[1].Rank)
	assert.ElementsMatch(t, []string{"ann", "bob"}, []string{summary[0].PlayerID, summary[1].PlayerID})
}

func TestAggregator_DryWinsCounted(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()
	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	f.playMatch(t, "m1", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, true, base)
	m2 := f.playMatch(t, "m2", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, false, base.Add(time.Hour))

	stats, err := f.agg.RecomputeForMatch(ctx, m2)
	require.NoError(t, err)

	ann, _ := stats.Get("ann")
	assert.Equal(t, 2, ann.TotalWins)
	assert.Equal(t, 1, ann.DryWins)

	// Dry wins count only for winners: the losing side stays at zero even
	// though it played the dry match.
	cid, _ := stats.Get("cid")
	assert.Equal(t, 0, cid.DryWins)
}

func TestAggregator_WinStreak(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()
	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	// ann: W W L W -> longest streak 2.
	f.playMatch(t, "m1", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, false, base)
	f.playMatch(t, "m2", [2]string{"ann", "cid"}, [2]string{"bob", "dot"}, false, base.Add(1*time.Hour))
	f.playMatch(t, "m3", [2]string{"bob", "cid"}, [2]string{"ann", "dot"}, false, base.Add(2*time.Hour))
	m4 := f.playMatch(t, "m4", [2]string{"ann", "dot"}, [2]string{"bob", "cid"}, false, base.Add(3*time.Hour))

	stats, err := f.agg.RecomputeForMatch(ctx, m4)
	require.NoError(t, err)

	ps, _ := stats.Get("ann")
	assert.Equal(t, 2, ps.LongestStreak)

	// dot: L L L W -> streak 1.
	dot, _ := stats.Get("dot")
	assert.Equal(t, 1, dot.LongestStreak)
}

func TestLongestWinStreak_NoMatchesOrNoWins(t *testing.T) {
	assert.Equal(t, 0, season.LongestWinStreak("ann", nil))

	loss := &match.Match{
		Winners:  [2]string{"bob", "cid"},
		Losers:   [2]string{"ann", "dot"},
		PlayedAt: time.Now(),
	}
	assert.Equal(t, 0, season.LongestWinStreak("ann", []*match.Match{loss, loss}))
}

func TestAggregator_RecomputeIsIdempotent(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()
	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	m := f.playMatch(t, "m1", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, true, at)

	first, err := f.agg.RecomputeForMatch(ctx, m)
	require.NoError(t, err)
	second, err := f.agg.RecomputeForMatch(ctx, m)
	require.NoError(t, err)

	assert.Equal(t, first.PlayerStats, second.PlayerStats)
}

func TestAggregator_BaselineIsWriteOnce(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()

	require.NoError(t, f.agg.EnsureSeasonBaseline(ctx, testSeason, []string{"ann"}))
	p, err := f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	start, ok := p.SeasonStart(testSeason)
	require.True(t, ok)
	assert.Equal(t, 1000, start)

	// Rating moves, second bootstrap must not touch the baseline.
	f.applyElo(t, "ann", 40, time.Now())
	require.NoError(t, f.agg.EnsureSeasonBaseline(ctx, testSeason, []string{"ann"}))

	p, err = f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	start, _ = p.SeasonStart(testSeason)
	assert.Equal(t, 1000, start)
}

func TestAggregator_RebuildSeasonMatchesIncremental(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot")
	ctx := context.Background()
	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	f.playMatch(t, "m1", [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, false, base)
	m2 := f.playMatch(t, "m2", [2]string{"cid", "dot"}, [2]string{"ann", "bob"}, true, base.Add(time.Hour))

	incremental, err := f.agg.RecomputeForMatch(ctx, m2)
	require.NoError(t, err)

	rebuilt, err := f.agg.RebuildSeason(ctx, testSeason)
	require.NoError(t, err)

	assert.Equal(t, incremental.PlayerStats, rebuilt.PlayerStats)
}

func TestAggregator_PointsRecomputedForUntouchedPlayers(t *testing.T) {
	f := newFixture(t, "ann", "bob", "cid", "dot", "eva", "fox")
	ctx := context.Background()
	base := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	// eva and fox play early and lead the matches-played category.
	m1 := f.playMatch(t, "m1", [2]string{"eva", "fox"}, [2]string{"cid", "dot"}, false, base)
	_, err := f.agg.RecomputeForMatch(ctx, m1)
	require.NoError(t, err)

	before, err := f.seasons.Get(ctx, testSeason)
	require.NoError(t, err)
	evaBefore, _ := before.Get("eva")

	// A later match between other players can demote eva's category ranks
	// even though eva is not part of it.
	for i, id := range []string{"m2", "m3"} {
		m := f.playMatch(t, id, [2]string{"ann", "bob"}, [2]string{"cid", "dot"}, false, base.Add(time.Duration(i+1)*time.Hour))
		_, err = f.agg.RecomputeForMatch(ctx, m)
		require.NoError(t, err)
	}

	after, err := f.seasons.Get(ctx, testSeason)
	require.NoError(t, err)
	evaAfter, _ := after.Get("eva")

	assert.Less(t, evaAfter.TotalPoints, evaBefore.TotalPoints,
		"points of a player untouched by the match must still be re-ranked")
}
