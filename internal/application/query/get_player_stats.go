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
// GET PLAYER STATS QUERY
// A single player's card: lifetime rating plus the per-season counters of the
// requested season.
// ══════════════════════════════════════════════════════════════════════════════

// GetPlayerStatsQuery identifies the player and season. Exactly one of
// PlayerID, Username or TelegramID must be set.
type GetPlayerStatsQuery struct {
	PlayerID   string
	Username   string
	TelegramID int64

	// SeasonID is the season whose counters to show. Empty means current.
	SeasonID string
}

// GetPlayerStatsResult contains the player card.
type GetPlayerStatsResult struct {
	PlayerID    string `json:"player_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	// CurrentElo is the lifetime rating, never reset between seasons.
	CurrentElo int `json:"current_elo"`

	SeasonID       string `json:"season_id"`
	SeasonStartElo int    `json:"season_start_elo"`
	EloGains       int    `json:"elo_gains"`
	MatchesPlayed  int    `json:"matches_played"`
	TotalWins      int    `json:"total_wins"`
	DryWins        int    `json:"dry_wins"`
	LongestStreak  int    `json:"longest_streak"`
	TotalPoints    int    `json:"total_points"`
}

// GetPlayerStatsHandler handles the GetPlayerStatsQuery.
type GetPlayerStatsHandler struct {
	players player.Repository
	seasons season.Repository
	logger  *slog.Logger
	now     func() time.Time
}

// NewGetPlayerStatsHandler creates the handler.
func NewGetPlayerStatsHandler(players player.Repository, seasons season.Repository, logger *slog.Logger) *GetPlayerStatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetPlayerStatsHandler{
		players: players,
		seasons: seasons,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle builds the player card.
func (h *GetPlayerStatsHandler) Handle(ctx context.Context, q GetPlayerStatsQuery) (*GetPlayerStatsResult, error) {
	p, err := h.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	seasonID := q.SeasonID
	if seasonID == "" {
		seasonID = season.Of(h.now()).String()
	}
	id, err := season.ParseID(seasonID)
	if err != nil {
		return nil, err
	}

	startElo, _ := p.SeasonStart(id.String())
	result := &GetPlayerStatsResult{
		PlayerID:       p.ID,
		Username:       p.Username.String(),
		DisplayName:    p.DisplayName(),
		CurrentElo:     p.CurrentElo.Int(),
		SeasonID:       id.String(),
		SeasonStartElo: startElo,
	}

	stats, err := h.seasons.Get(ctx, id)
	if shared.IsNotFound(err) {
		// Player exists, season has no matches yet: zero counters.
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if ps, ok := stats.Get(p.ID); ok {
		result.EloGains = ps.EloGains
		result.MatchesPlayed = ps.MatchesPlayed
		result.TotalWins = ps.TotalWins
		result.DryWins = ps.DryWins
		result.LongestStreak = ps.LongestStreak
		result.TotalPoints = ps.TotalPoints
	}
	return result, nil
}

// resolve finds the player by whichever identity the query carries.
func (h *GetPlayerStatsHandler) resolve(ctx context.Context, q GetPlayerStatsQuery) (*player.Player, error) {
	switch {
	case q.PlayerID != "":
		return h.players.GetByID(ctx, q.PlayerID)
	case q.Username != "":
		username, err := player.NewUsername(q.Username)
		if err != nil {
			return nil, err
		}
		return h.players.GetByUsername(ctx, username)
	case q.TelegramID != 0:
		return h.players.GetByTelegramID(ctx, player.TelegramID(q.TelegramID))
	default:
		return nil, shared.ErrInvalidInput
	}
}
