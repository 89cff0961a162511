package redis

import (
	"context"
	"errors"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// One JSON blob per season under "leaderboard:season:<YYYY-MM>". A recorded
// match invalidates the season's key; the TTL is the fallback for the
// invalidation path failing.
// ══════════════════════════════════════════════════════════════════════════════

// keyLeaderboard is the key prefix for cached season leaderboards.
const keyLeaderboard = "leaderboard:season:"

// LeaderboardCache caches rendered season leaderboards. It implements both
// query.LeaderboardCache and the command layer's CacheInvalidator.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache instance.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// GetLeaderboard returns the cached leaderboard for a season, or (nil, nil)
// on a cache miss so the caller falls through to the database.
func (c *LeaderboardCache) GetLeaderboard(ctx context.Context, seasonID string) (*query.GetLeaderboardResult, error) {
	var result query.GetLeaderboardResult
	err := c.cache.GetJSON(ctx, keyLeaderboard+seasonID, &result)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetLeaderboard stores a rendered leaderboard with a TTL.
func (c *LeaderboardCache) SetLeaderboard(ctx context.Context, result *query.GetLeaderboardResult, ttl time.Duration) error {
	return c.cache.SetJSON(ctx, keyLeaderboard+result.SeasonID, result, ttl)
}

// InvalidateSeason drops the cached leaderboard of a season.
func (c *LeaderboardCache) InvalidateSeason(ctx context.Context, seasonID string) error {
	return c.cache.Delete(ctx, keyLeaderboard+seasonID)
}
