package command

import (
	"context"
	"log/slog"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD SEASON COMMAND
// Administrative repair: re-derives a season's whole aggregate from the
// match ledger. Safe to run at any time - rebuilding an up-to-date season
// changes nothing.
// ══════════════════════════════════════════════════════════════════════════════

// RebuildSeasonCommand names the season to rebuild.
type RebuildSeasonCommand struct {
	// SeasonID is the season to rebuild (YYYY-MM).
	SeasonID string
}

// RebuildSeasonResult reports what was rebuilt.
type RebuildSeasonResult struct {
	SeasonID      string
	PlayersRanked int
}

// RebuildSeasonHandler handles the RebuildSeasonCommand.
type RebuildSeasonHandler struct {
	aggregator *season.Aggregator
	cache      CacheInvalidator
	logger     *slog.Logger
}

// NewRebuildSeasonHandler creates the handler. cache may be nil.
func NewRebuildSeasonHandler(aggregator *season.Aggregator, cache CacheInvalidator, logger *slog.Logger) *RebuildSeasonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildSeasonHandler{aggregator: aggregator, cache: cache, logger: logger}
}

// Handle rebuilds the season aggregate.
func (h *RebuildSeasonHandler) Handle(ctx context.Context, cmd RebuildSeasonCommand) (*RebuildSeasonResult, error) {
	id, err := season.ParseID(cmd.SeasonID)
	if err != nil {
		return nil, err
	}

	stats, err := h.aggregator.RebuildSeason(ctx, id)
	if err != nil {
		return nil, shared.WrapError("season", "Rebuild", shared.ErrExternalService,
			"season rebuild failed", err)
	}

	if h.cache != nil {
		if err := h.cache.InvalidateSeason(ctx, id.String()); err != nil {
			h.logger.Warn("leaderboard cache invalidation failed",
				"season_id", id.String(), "error", err)
		}
	}

	h.logger.Info("season rebuilt",
		"season_id", id.String(),
		"players", len(stats.PlayerStats),
	)
	return &RebuildSeasonResult{
		SeasonID:      id.String(),
		PlayersRanked: len(stats.PlayerStats),
	}, nil
}
