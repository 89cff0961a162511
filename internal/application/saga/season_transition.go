// Package saga contains multi-step workflows that coordinate several
// repositories and external services. A saga tolerates partial failure of
// its side effects and is safe to re-run.
package saga

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON TRANSITION SAGA
// Runs at the turn of the month: closes out the previous season, bootstraps
// the new one and tells the league who won.
//
// Steps:
//  1. derive previous and new season from the wall clock;
//  2. read the previous season's podium (top three summary places);
//  3. create the new season aggregate and write every registered player's
//     rating baseline (both idempotent - re-running changes nothing);
//  4. notify players, one message per player, each carrying the podium.
//     Notification failures are counted, logged and tolerated: one
//     unreachable player never blocks the rollover.
// ══════════════════════════════════════════════════════════════════════════════

// Notifier delivers season announcements. Implemented by the Telegram
// notification service; a nil Notifier disables announcements. Every
// message carries the closed season's podium, so each player needs only
// one delivery.
type Notifier interface {
	// NotifyWinner congratulates one podium player personally: their own
	// place and points plus the full podium.
	NotifyWinner(ctx context.Context, telegramID int64, seasonID string, rank, points int, podium []Winner) error

	// AnnounceSeason tells one player the season's results and that the
	// new season has started.
	AnnounceSeason(ctx context.Context, telegramID int64, closedSeasonID, newSeasonID string, podium []Winner) error
}

// Winner is one podium place of the closed season.
type Winner struct {
	Rank        int
	PlayerID    string
	DisplayName string
	TotalPoints int
}

// TransitionResult reports what the rollover did.
type TransitionResult struct {
	PreviousSeasonID string
	NewSeasonID      string
	Winners          []Winner

	// PlayersBaselined is how many registered players got a baseline in
	// the new season.
	PlayersBaselined int

	// NotificationsSent / NotificationsFailed count delivery outcomes.
	NotificationsSent   int
	NotificationsFailed int
}

// SeasonTransitionSaga coordinates the monthly rollover.
type SeasonTransitionSaga struct {
	players    player.Repository
	seasons    season.Repository
	aggregator *season.Aggregator
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time

	// running guards against overlapping rollovers from concurrent
	// scheduler ticks and admin commands.
	running atomic.Bool
}

// NewSeasonTransitionSaga creates the saga. notifier may be nil.
func NewSeasonTransitionSaga(
	players player.Repository,
	seasons season.Repository,
	aggregator *season.Aggregator,
	notifier Notifier,
	logger *slog.Logger,
) *SeasonTransitionSaga {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeasonTransitionSaga{
		players:    players,
		seasons:    seasons,
		aggregator: aggregator,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (s *SeasonTransitionSaga) WithClock(now func() time.Time) *SeasonTransitionSaga {
	s.now = now
	return s
}

// Execute performs the rollover for the month the clock currently points at:
// the new season is the current month, the closed season is the month before.
// Returns ErrTransitionInFlight when a rollover is already running.
func (s *SeasonTransitionSaga) Execute(ctx context.Context) (*TransitionResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, shared.ErrTransitionInFlight
	}
	defer s.running.Store(false)

	newSeason := season.Of(s.now())
	prevSeason := newSeason.Previous()

	s.logger.Info("season transition started",
		"previous_season", prevSeason.String(),
		"new_season", newSeason.String(),
	)

	winners, err := s.podium(ctx, prevSeason)
	if err != nil {
		return nil, err
	}

	baselined, err := s.bootstrap(ctx, newSeason)
	if err != nil {
		return nil, err
	}

	result := &TransitionResult{
		PreviousSeasonID: prevSeason.String(),
		NewSeasonID:      newSeason.String(),
		Winners:          winners,
		PlayersBaselined: baselined,
	}

	s.notify(ctx, result)

	s.logger.Info("season transition finished",
		"previous_season", prevSeason.String(),
		"new_season", newSeason.String(),
		"winners", len(winners),
		"players_baselined", baselined,
		"notifications_sent", result.NotificationsSent,
		"notifications_failed", result.NotificationsFailed,
	)
	return result, nil
}

// podium reads the closed season's top three summary places. A season that
// never saw a match produces an empty podium, not an error.
func (s *SeasonTransitionSaga) podium(ctx context.Context, id season.ID) ([]Winner, error) {
	stats, err := s.seasons.Get(ctx, id)
	if shared.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	top := season.TopN(stats, 3)
	winners := make([]Winner, 0, len(top))
	for _, e := range top {
		w := Winner{Rank: e.Rank, PlayerID: e.PlayerID, TotalPoints: e.Value}
		if p, err := s.players.GetByID(ctx, e.PlayerID); err == nil {
			w.DisplayName = p.DisplayName()
		} else {
			w.DisplayName = e.PlayerID
		}
		winners = append(winners, w)
	}
	return winners, nil
}

// bootstrap creates the new season aggregate and writes a rating baseline
// for every registered player. Both writes are idempotent, so a crashed or
// repeated rollover picks up where it left off.
func (s *SeasonTransitionSaga) bootstrap(ctx context.Context, id season.ID) (int, error) {
	if _, err := s.seasons.GetOrCreate(ctx, id); err != nil {
		return 0, fmt.Errorf("bootstrap season %s: %w", id, err)
	}

	players, err := s.players.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load players for season %s: %w", id, err)
	}
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	if err := s.aggregator.EnsureSeasonBaseline(ctx, id, ids); err != nil {
		return 0, fmt.Errorf("baseline season %s: %w", id, err)
	}
	return len(ids), nil
}

// notify delivers exactly one message per notifiable player: a personal
// congratulation to podium players, the season announcement to everyone
// else. Both carry the podium. Every delivery failure is tolerated and
// counted; players without a Telegram identity are skipped silently.
func (s *SeasonTransitionSaga) notify(ctx context.Context, result *TransitionResult) {
	if s.notifier == nil {
		return
	}

	onPodium := make(map[string]struct{}, len(result.Winners))
	for _, w := range result.Winners {
		onPodium[w.PlayerID] = struct{}{}
		p, err := s.players.GetByID(ctx, w.PlayerID)
		if err != nil || !p.CanBeNotified() {
			continue
		}
		if err := s.notifier.NotifyWinner(ctx, int64(p.TelegramID), result.PreviousSeasonID, w.Rank, w.TotalPoints, result.Winners); err != nil {
			result.NotificationsFailed++
			s.logger.Warn("winner notification failed",
				"player_id", w.PlayerID,
				"season_id", result.PreviousSeasonID,
				"error", err,
			)
			continue
		}
		result.NotificationsSent++
	}

	players, err := s.players.GetAll(ctx)
	if err != nil {
		s.logger.Warn("season announcement skipped, cannot load players", "error", err)
		return
	}
	for _, p := range players {
		if _, won := onPodium[p.ID]; won {
			// Podium players already got their congratulation.
			continue
		}
		if !p.CanBeNotified() {
			continue
		}
		if err := s.notifier.AnnounceSeason(ctx, int64(p.TelegramID), result.PreviousSeasonID, result.NewSeasonID, result.Winners); err != nil {
			result.NotificationsFailed++
			s.logger.Warn("season announcement failed",
				"player_id", p.ID,
				"season_id", result.NewSeasonID,
				"error", err,
			)
			continue
		}
		result.NotificationsSent++
	}
}
