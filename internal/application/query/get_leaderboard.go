// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
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
// GET SEASON LEADERBOARD QUERY
// Returns the season's summary ranking plus all five category rankings.
// A season nobody has played in yields empty lists, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache stores rendered leaderboards per season.
// A nil cache is valid (caching disabled).
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context, seasonID string) (*GetLeaderboardResult, error)
	SetLeaderboard(ctx context.Context, result *GetLeaderboardResult, ttl time.Duration) error
}

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// SeasonID is the season to rank. Empty means the current season.
	SeasonID string
}

// RankedEntryDTO is one leaderboard row.
type RankedEntryDTO struct {
	// Rank is the 1-based position; tied entries share a rank.
	Rank int `json:"rank"`

	// PlayerID is the internal player ID.
	PlayerID string `json:"player_id"`

	// DisplayName is the alias or handle for presentation.
	DisplayName string `json:"display_name"`

	// Value is the category value, or the total points in the summary.
	Value int `json:"value"`
}

// CategoryRankingsDTO groups the five category rankings.
type CategoryRankingsDTO struct {
	EloGains      []RankedEntryDTO `json:"elo_gains"`
	MatchesPlayed []RankedEntryDTO `json:"matches_played"`
	DryWins       []RankedEntryDTO `json:"dry_wins"`
	TotalWins     []RankedEntryDTO `json:"total_wins"`
	LongestStreak []RankedEntryDTO `json:"longest_streak"`
}

// GetLeaderboardResult contains the full leaderboard of one season.
type GetLeaderboardResult struct {
	SeasonID    string              `json:"season_id"`
	Summary     []RankedEntryDTO    `json:"summary"`
	Categories  CategoryRankingsDTO `json:"categories"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	seasons  season.Repository
	players  player.Repository
	cache    LeaderboardCache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewGetLeaderboardHandler creates the handler. cache may be nil.
func NewGetLeaderboardHandler(
	seasons season.Repository,
	players player.Repository,
	cache LeaderboardCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &GetLeaderboardHandler{
		seasons:  seasons,
		players:  players,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle builds the season leaderboard.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	seasonID := q.SeasonID
	if seasonID == "" {
		seasonID = season.Of(h.now()).String()
	}
	id, err := season.ParseID(seasonID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if cached, err := h.cache.GetLeaderboard(ctx, id.String()); err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := h.seasons.Get(ctx, id)
	if shared.IsNotFound(err) {
		// Untouched season: an empty leaderboard, not an error.
		stats = season.NewStats(id, h.now())
	} else if err != nil {
		return nil, err
	}

	names, err := h.displayNames(ctx, stats)
	if err != nil {
		return nil, err
	}

	result := &GetLeaderboardResult{
		SeasonID:    id.String(),
		Summary:     toDTOs(season.RankSummary(stats), names),
		GeneratedAt: h.now(),
		Categories: CategoryRankingsDTO{
			EloGains:      toDTOs(season.RankCategory(stats, season.CategoryEloGains), names),
			MatchesPlayed: toDTOs(season.RankCategory(stats, season.CategoryMatchesPlayed), names),
			DryWins:       toDTOs(season.RankCategory(stats, season.CategoryDryWins), names),
			TotalWins:     toDTOs(season.RankCategory(stats, season.CategoryTotalWins), names),
			LongestStreak: toDTOs(season.RankCategory(stats, season.CategoryLongestStreak), names),
		},
	}

	if h.cache != nil {
		if err := h.cache.SetLeaderboard(ctx, result, h.cacheTTL); err != nil {
			h.logger.Debug("leaderboard cache write failed",
				"season_id", id.String(), "error", err)
		}
	}
	return result, nil
}

// displayNames resolves presentation names for every ranked player.
func (h *GetLeaderboardHandler) displayNames(ctx context.Context, stats *season.Stats) (map[string]string, error) {
	ids := stats.PlayerIDs()
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	players, err := h.players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		names[p.ID] = p.DisplayName()
	}
	return names, nil
}

// toDTOs converts domain ranking entries into presentation rows. Always
// returns a non-nil slice so empty seasons serialize as [].
func toDTOs(entries []season.RankedEntry, names map[string]string) []RankedEntryDTO {
	out := make([]RankedEntryDTO, 0, len(entries))
	for _, e := range entries {
		name := names[e.PlayerID]
		if name == "" {
			name = e.PlayerID
		}
		out = append(out, RankedEntryDTO{
			Rank:        e.Rank,
			PlayerID:    e.PlayerID,
			DisplayName: name,
			Value:       e.Value,
		})
	}
	return out
}
