package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SEASON WINNERS QUERY
// The podium of a finished (or running) season: top entries of the summary
// ranking, up to three distinct rank positions.
// ══════════════════════════════════════════════════════════════════════════════

// WinnersLimit is how many podium places a season announcement names.
const WinnersLimit = 3

// GetSeasonWinnersQuery names the season.
type GetSeasonWinnersQuery struct {
	// SeasonID is the season to read. Empty means the current season.
	SeasonID string
}

// GetSeasonWinnersResult contains the podium.
type GetSeasonWinnersResult struct {
	SeasonID string           `json:"season_id"`
	Winners  []RankedEntryDTO `json:"winners"`
}

// GetSeasonWinnersHandler handles the GetSeasonWinnersQuery.
type GetSeasonWinnersHandler struct {
	seasons season.Repository
	players player.Repository
	logger  *slog.Logger
	now     func() time.Time
}

// NewGetSeasonWinnersHandler creates the handler.
func NewGetSeasonWinnersHandler(seasons season.Repository, players player.Repository, logger *slog.Logger) *GetSeasonWinnersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetSeasonWinnersHandler{
		seasons: seasons,
		players: players,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle returns the season podium. A season without matches yields an
// empty winners list.
func (h *GetSeasonWinnersHandler) Handle(ctx context.Context, q GetSeasonWinnersQuery) (*GetSeasonWinnersResult, error) {
	seasonID := q.SeasonID
	if seasonID == "" {
		seasonID = season.Of(h.now()).String()
	}
	id, err := season.ParseID(seasonID)
	if err != nil {
		return nil, err
	}

	result := &GetSeasonWinnersResult{
		SeasonID: id.String(),
		Winners:  []RankedEntryDTO{},
	}

	stats, err := h.seasons.Get(ctx, id)
	if shared.IsNotFound(err) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	top := season.TopN(stats, WinnersLimit)
	if len(top) == 0 {
		return result, nil
	}

	names := make(map[string]string, len(top))
	ids := make([]string, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.PlayerID)
	}
	players, err := h.players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		names[p.ID] = p.DisplayName()
	}

	result.Winners = toDTOs(top, names)
	return result, nil
}
