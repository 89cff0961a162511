package saga_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
)

// fakeNotifier records deliveries and fails for blacklisted recipients.
type fakeNotifier struct {
	mu        sync.Mutex
	winners   []int64
	announced []int64
	podiums   map[int64][]saga.Winner
	failFor   map[int64]bool
}

func (f *fakeNotifier) NotifyWinner(_ context.Context, telegramID int64, _ string, _, _ int, podium []saga.Winner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[telegramID] {
		return errors.New("chat not found")
	}
	f.winners = append(f.winners, telegramID)
	f.podiums[telegramID] = podium
	return nil
}

func (f *fakeNotifier) AnnounceSeason(_ context.Context, telegramID int64, _, _ string, podium []saga.Winner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[telegramID] {
		return errors.New("chat not found")
	}
	f.announced = append(f.announced, telegramID)
	f.podiums[telegramID] = podium
	return nil
}

// deliveries returns every telegram ID that got a message, in order.
func (f *fakeNotifier) deliveries() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]int64, 0, len(f.winners)+len(f.announced))
	all = append(all, f.winners...)
	all = append(all, f.announced...)
	return all
}

type transitionFixture struct {
	players  *memory.PlayerRepository
	seasons  *memory.SeasonRepository
	notifier *fakeNotifier
	saga     *saga.SeasonTransitionSaga
	now      time.Time
}

func newTransitionFixture(t *testing.T) *transitionFixture {
	t.Helper()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	seasons := memory.NewSeasonRepository()
	notifier := &fakeNotifier{failFor: map[int64]bool{}, podiums: map[int64][]saga.Winner{}}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	agg := season.NewAggregator(seasons, matches, players).WithClock(func() time.Time { return now })
	s := saga.NewSeasonTransitionSaga(players, seasons, agg, notifier, slog.Default()).
		WithClock(func() time.Time { return now })
	return &transitionFixture{players: players, seasons: seasons, notifier: notifier, saga: s, now: now}
}

func (f *transitionFixture) addPlayer(t *testing.T, id string, telegramID int64) {
	t.Helper()
	username, err := player.NewUsername(id)
	require.NoError(t, err)
	p := player.NewPlayer(id, player.TelegramID(telegramID), username, f.now)
	require.NoError(t, f.players.Create(context.Background(), p))
}

func (f *transitionFixture) closeSeason(t *testing.T, id season.ID, points map[string]int) {
	t.Helper()
	stats := season.NewStats(id, f.now)
	for playerID, p := range points {
		stats.UpsertRaw(playerID, 0, 1, 0, 0, 0, f.now)
		stats.SetPoints(playerID, p, f.now)
	}
	require.NoError(t, f.seasons.Save(context.Background(), stats))
}

func TestSeasonTransitionSaga_FullRollover(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()
	f.addPlayer(t, "ann", 101)
	f.addPlayer(t, "bob", 102)
	f.addPlayer(t, "cyd", 103)
	f.addPlayer(t, "dan", 104)
	f.closeSeason(t, "2025-02", map[string]int{"ann": 12, "bob": 9, "cyd": 5, "dan": 1})

	result, err := f.saga.Execute(ctx)
	require.NoError(t, err)

	// The clock says March 1st: February closes, March opens.
	assert.Equal(t, "2025-02", result.PreviousSeasonID)
	assert.Equal(t, "2025-03", result.NewSeasonID)

	require.Len(t, result.Winners, 3)
	assert.Equal(t, "ann", result.Winners[0].PlayerID)
	assert.Equal(t, 1, result.Winners[0].Rank)
	assert.Equal(t, 12, result.Winners[0].TotalPoints)

	// Every registered player got a new-season baseline.
	assert.Equal(t, 4, result.PlayersBaselined)
	ann, err := f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	start, ok := ann.SeasonStart("2025-03")
	require.True(t, ok)
	assert.Equal(t, 1000, start)

	// The new season aggregate exists.
	_, err = f.seasons.Get(ctx, "2025-03")
	require.NoError(t, err)

	// Three congratulations, the announcement goes only to the player off
	// the podium: one message each.
	assert.ElementsMatch(t, []int64{101, 102, 103}, f.notifier.winners)
	assert.ElementsMatch(t, []int64{104}, f.notifier.announced)
	assert.Equal(t, 4, result.NotificationsSent)
	assert.Zero(t, result.NotificationsFailed)
}

func TestSeasonTransitionSaga_OneMessagePerPlayerWithPodium(t *testing.T) {
	f := newTransitionFixture(t)
	f.addPlayer(t, "ann", 101)
	f.addPlayer(t, "bob", 102)
	f.addPlayer(t, "cyd", 103)
	f.closeSeason(t, "2025-02", map[string]int{"ann": 9, "bob": 3})

	result, err := f.saga.Execute(context.Background())
	require.NoError(t, err)

	// Exactly one delivery per player: the podium players get their
	// congratulation, cyd gets the announcement.
	assert.ElementsMatch(t, []int64{101, 102}, f.notifier.winners)
	assert.ElementsMatch(t, []int64{103}, f.notifier.announced)
	assert.Equal(t, 3, result.NotificationsSent)

	all := f.notifier.deliveries()
	seen := make(map[int64]int, len(all))
	for _, id := range all {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "player %d must receive exactly one message", id)
	}

	// Every message carries the full podium.
	for id, podium := range f.notifier.podiums {
		require.Len(t, podium, 2, "podium delivered to %d", id)
		assert.Equal(t, "ann", podium[0].PlayerID)
		assert.Equal(t, 1, podium[0].Rank)
		assert.Equal(t, 9, podium[0].TotalPoints)
		assert.Equal(t, "bob", podium[1].PlayerID)
		assert.Equal(t, 2, podium[1].Rank)
		assert.Equal(t, 3, podium[1].TotalPoints)
	}
	assert.Len(t, f.notifier.podiums, 3)
}

func TestSeasonTransitionSaga_JanuaryWrapsToDecember(t *testing.T) {
	f := newTransitionFixture(t)
	jan := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	f.saga.WithClock(func() time.Time { return jan })

	result, err := f.saga.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-12", result.PreviousSeasonID)
	assert.Equal(t, "2026-01", result.NewSeasonID)
}

func TestSeasonTransitionSaga_EmptyPreviousSeason(t *testing.T) {
	f := newTransitionFixture(t)
	f.addPlayer(t, "ann", 101)

	result, err := f.saga.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Winners)
	assert.Equal(t, 1, result.PlayersBaselined)
}

func TestSeasonTransitionSaga_NotificationFailureTolerated(t *testing.T) {
	f := newTransitionFixture(t)
	f.addPlayer(t, "ann", 101)
	f.addPlayer(t, "bob", 102)
	f.notifier.failFor[101] = true
	f.closeSeason(t, "2025-02", map[string]int{"ann": 5, "bob": 3})

	result, err := f.saga.Execute(context.Background())
	require.NoError(t, err, "an unreachable player never blocks the rollover")
	// ann's congratulation fails; both players sit on the podium, so no
	// announcements go out.
	assert.Equal(t, 1, result.NotificationsFailed)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.ElementsMatch(t, []int64{102}, f.notifier.winners)
	assert.Empty(t, f.notifier.announced)
}

func TestSeasonTransitionSaga_SkipsPlayersWithoutTelegramID(t *testing.T) {
	f := newTransitionFixture(t)
	f.addPlayer(t, "ann", 101)
	f.addPlayer(t, "manual", 0)
	f.closeSeason(t, "2025-02", map[string]int{"ann": 3, "manual": 5})

	result, err := f.saga.Execute(context.Background())
	require.NoError(t, err)
	// The manual player wins but has no chat to congratulate; ann gets her
	// own congratulation and nothing else.
	assert.Equal(t, "manual", result.Winners[0].PlayerID)
	assert.ElementsMatch(t, []int64{101}, f.notifier.winners)
	assert.Empty(t, f.notifier.announced)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Zero(t, result.NotificationsFailed)
}

func TestSeasonTransitionSaga_Idempotent(t *testing.T) {
	f := newTransitionFixture(t)
	ctx := context.Background()
	f.addPlayer(t, "ann", 101)
	f.closeSeason(t, "2025-02", map[string]int{"ann": 3})

	_, err := f.saga.Execute(ctx)
	require.NoError(t, err)

	// Move ann's rating, then re-run: the baseline must keep its original
	// value, re-running the rollover rewrites nothing.
	ann, err := f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	ann.ApplyEloChange(40, f.now)
	require.NoError(t, f.players.Update(ctx, ann))

	result, err := f.saga.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PlayersBaselined)

	ann, err = f.players.GetByID(ctx, "ann")
	require.NoError(t, err)
	start, _ := ann.SeasonStart("2025-03")
	assert.Equal(t, 1000, start)
}
