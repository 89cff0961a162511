package handler

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/persistence/memory"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// stallingNotifier parks deliveries until released, keeping a transition
// in flight for as long as the test needs.
type stallingNotifier struct {
	entered sync.Once
	started chan struct{}
	release chan struct{}
}

func newStallingNotifier() *stallingNotifier {
	return &stallingNotifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (n *stallingNotifier) stall() {
	n.entered.Do(func() { close(n.started) })
	<-n.release
}

func (n *stallingNotifier) NotifyWinner(context.Context, int64, string, int, int, []saga.Winner) error {
	n.stall()
	return nil
}

func (n *stallingNotifier) AnnounceSeason(context.Context, int64, string, string, []saga.Winner) error {
	n.stall()
	return nil
}

func newSeasonHandlerFixture(t *testing.T, notifier saga.Notifier) (*SeasonHandler, *saga.SeasonTransitionSaga) {
	t.Helper()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	seasons := memory.NewSeasonRepository()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	username, err := player.NewUsername("ann")
	require.NoError(t, err)
	require.NoError(t, players.Create(context.Background(),
		player.NewPlayer("ann", player.TelegramID(101), username, now)))

	agg := season.NewAggregator(seasons, matches, players).WithClock(func() time.Time { return now })
	transition := saga.NewSeasonTransitionSaga(players, seasons, agg, notifier, slog.Default()).
		WithClock(func() time.Time { return now })
	winners := query.NewGetSeasonWinnersHandler(seasons, players, slog.Default())

	h := NewSeasonHandler(winners, transition, presenter.NewLeaderboardPresenter(), []int64{7})
	return h, transition
}

func TestSeasonHandler_RolloverRequiresAdmin(t *testing.T) {
	h, _ := newSeasonHandlerFixture(t, nil)

	resp, err := h.Handle(context.Background(), SeasonRequest{TelegramID: 999, Args: "rollover"})
	assert.NoError(t, err)
	assert.Contains(t, resp.Text, "администраторам")
}

func TestSeasonHandler_RolloverFailureRendersWithoutError(t *testing.T) {
	notifier := newStallingNotifier()
	h, transition := newSeasonHandlerFixture(t, notifier)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = transition.Execute(ctx)
	}()
	<-notifier.started

	// A second trigger while the transition runs fails; the handler turns
	// that into a user message instead of propagating the error.
	resp, err := h.Handle(ctx, SeasonRequest{TelegramID: 7, Args: "rollover"})
	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Text)

	close(notifier.release)
	<-done
}
