package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/rating"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD MATCH COMMAND
// The write path of the whole league: validates the submission, applies Elo,
// appends to the immutable ledger and triggers the season re-aggregation.
//
// Ordering matters: season baselines are written before the Elo deltas are
// applied, so a player's first match of the season counts into "Elo gained".
// The ledger append is the durability point - a failure after it never rolls
// the match back, season stats are a repairable cache.
// ══════════════════════════════════════════════════════════════════════════════

// CacheInvalidator drops cached leaderboard views after a write.
// A nil invalidator is valid (caching disabled).
type CacheInvalidator interface {
	InvalidateSeason(ctx context.Context, seasonID string) error
}

// RecordMatchCommand contains a finalized match submission from the chat dialog.
type RecordMatchCommand struct {
	// WinnerIDs are the two players of the winning pair.
	WinnerIDs [2]string

	// LoserIDs are the two players of the losing pair.
	LoserIDs [2]string

	// SeasonID is the season the match belongs to. Empty means the
	// current season at submission time.
	SeasonID string

	// IsDryWin is the explicit answer from the dialog.
	IsDryWin bool

	// DryWinKnown is false when the submitter gave no explicit answer;
	// the Elo-delta heuristic then decides.
	DryWinKnown bool
}

// Validate checks the submission before anything is touched.
func (c RecordMatchCommand) Validate() error {
	seen := make(map[string]struct{}, 4)
	for _, id := range append(c.WinnerIDs[:], c.LoserIDs[:]...) {
		if id == "" {
			return shared.ErrInvalidTeamSize
		}
		if _, dup := seen[id]; dup {
			return shared.ErrDuplicatePlayers
		}
		seen[id] = struct{}{}
	}
	if c.SeasonID != "" && !match.IsValidSeasonID(c.SeasonID) {
		return shared.ErrInvalidSeasonID
	}
	return nil
}

// PlayerEloChange describes one player's rating movement from the match.
type PlayerEloChange struct {
	PlayerID    string
	DisplayName string
	OldElo      int
	NewElo      int
	Change      int
}

// RecordMatchResult contains the outcome of a recorded match.
type RecordMatchResult struct {
	MatchID  string
	SeasonID string
	IsDryWin bool
	Winners  [2]PlayerEloChange
	Losers   [2]PlayerEloChange
	PlayedAt time.Time
}

// RecordMatchHandler handles the RecordMatchCommand.
type RecordMatchHandler struct {
	players    player.Repository
	matches    match.Repository
	aggregator *season.Aggregator
	cache      CacheInvalidator
	logger     *slog.Logger
	now        func() time.Time
}

// NewRecordMatchHandler creates the handler. cache may be nil.
func NewRecordMatchHandler(
	players player.Repository,
	matches match.Repository,
	aggregator *season.Aggregator,
	cache CacheInvalidator,
	logger *slog.Logger,
) *RecordMatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordMatchHandler{
		players:    players,
		matches:    matches,
		aggregator: aggregator,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (h *RecordMatchHandler) WithClock(now func() time.Time) *RecordMatchHandler {
	h.now = now
	return h
}

// Handle records a finalized match.
func (h *RecordMatchHandler) Handle(ctx context.Context, cmd RecordMatchCommand) (*RecordMatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	playedAt := h.now()
	seasonID := cmd.SeasonID
	if seasonID == "" {
		seasonID = season.Of(playedAt).String()
	}

	// Resolve all four players before any mutation: an unknown identity
	// rejects the whole submission.
	winners, err := h.resolvePair(ctx, cmd.WinnerIDs)
	if err != nil {
		return nil, err
	}
	losers, err := h.resolvePair(ctx, cmd.LoserIDs)
	if err != nil {
		return nil, err
	}

	// Season baselines must exist before the deltas are applied, so the
	// first match of a season counts into the Elo-gained category.
	allIDs := append(cmd.WinnerIDs[:], cmd.LoserIDs[:]...)
	if err := h.aggregator.EnsureSeasonBaseline(ctx, season.ID(seasonID), allIDs); err != nil {
		return nil, err
	}

	res := rating.ComputeTeamChanges(
		[2]int{winners[0].CurrentElo.Int(), winners[1].CurrentElo.Int()},
		[2]int{losers[0].CurrentElo.Int(), losers[1].CurrentElo.Int()},
		rating.Team1,
	)

	isDry := cmd.IsDryWin
	if !cmd.DryWinKnown {
		// Legacy fallback for submissions without an explicit answer.
		isDry = match.DryWinByEloDelta(res.Team2Changes)
	}

	m := &match.Match{
		ID:               uuid.New().String(),
		SeasonID:         seasonID,
		Winners:          cmd.WinnerIDs,
		Losers:           cmd.LoserIDs,
		WinnerEloChanges: res.Team1Changes,
		LoserEloChanges:  res.Team2Changes,
		IsDryWin:         isDry,
		PlayedAt:         playedAt,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := h.matches.Append(ctx, m); err != nil {
		return nil, shared.WrapError("match", "Record", shared.ErrExternalService,
			"failed to append match to ledger", err)
	}

	// From here on the match is durable; errors propagate but nothing is
	// rolled back.
	result := &RecordMatchResult{
		MatchID:  m.ID,
		SeasonID: seasonID,
		IsDryWin: isDry,
		PlayedAt: playedAt,
	}
	for i := range winners {
		result.Winners[i] = h.applyChange(ctx, winners[i], res.Team1Changes[i], playedAt, &err)
	}
	for i := range losers {
		result.Losers[i] = h.applyChange(ctx, losers[i], res.Team2Changes[i], playedAt, &err)
	}
	if err != nil {
		return nil, shared.WrapError("player", "Record", shared.ErrExternalService,
			"failed to persist rating changes", err)
	}

	if _, err := h.aggregator.RecomputeForMatch(ctx, m); err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.InvalidateSeason(ctx, seasonID); err != nil {
			// Stale cache entries expire on their own; not worth failing
			// a recorded match over.
			h.logger.Warn("leaderboard cache invalidation failed",
				"season_id", seasonID, "error", err)
		}
	}

	h.logger.Info("match recorded",
		"match_id", m.ID,
		"season_id", seasonID,
		"dry_win", isDry,
		"winner_change", res.Team1Changes[0],
	)
	return result, nil
}

// resolvePair loads one side of the match.
func (h *RecordMatchHandler) resolvePair(ctx context.Context, ids [2]string) ([2]*player.Player, error) {
	var pair [2]*player.Player
	for i, id := range ids {
		p, err := h.players.GetByID(ctx, id)
		if err != nil {
			return pair, err
		}
		pair[i] = p
	}
	return pair, nil
}

// applyChange mutates and persists one player's rating. The first error is
// kept in errOut; later players are still processed so ratings do not end up
// half-applied more than necessary.
func (h *RecordMatchHandler) applyChange(ctx context.Context, p *player.Player, change int, now time.Time, errOut *error) PlayerEloChange {
	old := p.CurrentElo.Int()
	p.ApplyEloChange(change, now)
	if err := h.players.Update(ctx, p); err != nil && *errOut == nil {
		*errOut = err
	}
	return PlayerEloChange{
		PlayerID:    p.ID,
		DisplayName: p.DisplayName(),
		OldElo:      old,
		NewElo:      p.CurrentElo.Int(),
		Change:      p.CurrentElo.Int() - old,
	}
}
