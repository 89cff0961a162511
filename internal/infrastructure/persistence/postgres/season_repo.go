package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON REPOSITORY IMPLEMENTATION
// Save writes the whole aggregate in one transaction. The aggregator
// serializes recompute-and-save per season, so two concurrent Saves for the
// same season never interleave.
// ══════════════════════════════════════════════════════════════════════════════

// SeasonRepository implements season.Repository for PostgreSQL.
type SeasonRepository struct {
	conn *Connection
}

// NewSeasonRepository creates a new SeasonRepository.
func NewSeasonRepository(conn *Connection) *SeasonRepository {
	return &SeasonRepository{conn: conn}
}

// GetOrCreate returns the season's aggregate, creating an empty one on first
// reference.
func (r *SeasonRepository) GetOrCreate(ctx context.Context, id season.ID) (*season.Stats, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO seasons (id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.conn.Exec(ctx, query, id.String(), now); err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return r.Get(ctx, id)
}

// Get returns the season's aggregate.
func (r *SeasonRepository) Get(ctx context.Context, id season.ID) (*season.Stats, error) {
	stats := season.NewStats(id, time.Now().UTC())

	err := r.conn.QueryRow(ctx,
		"SELECT created_at, updated_at FROM seasons WHERE id = $1", id.String(),
	).Scan(&stats.CreatedAt, &stats.UpdatedAt)
	if IsNoRows(err) {
		return nil, shared.ErrSeasonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	rows, err := r.conn.Query(ctx, `
		SELECT player_id, elo_gains, matches_played, dry_wins, total_wins,
			   longest_streak, total_points, updated_at
		FROM season_player_stats
		WHERE season_id = $1
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query season stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps season.PlayerStats
		var updatedAt time.Time
		err := rows.Scan(
			&ps.PlayerID,
			&ps.EloGains,
			&ps.MatchesPlayed,
			&ps.DryWins,
			&ps.TotalWins,
			&ps.LongestStreak,
			&ps.TotalPoints,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan season stats: %w", err)
		}
		stats.UpsertRaw(ps.PlayerID, ps.EloGains, ps.MatchesPlayed, ps.DryWins,
			ps.TotalWins, ps.LongestStreak, updatedAt)
		stats.SetPoints(ps.PlayerID, ps.TotalPoints, updatedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return stats, nil
}

// Save persists the whole aggregate.
func (r *SeasonRepository) Save(ctx context.Context, s *season.Stats) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO seasons (id, created_at, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		`, s.SeasonID.String(), s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert season: %w", err)
		}

		for _, ps := range s.PlayerStats {
			_, err := tx.Exec(ctx, `
				INSERT INTO season_player_stats (
					season_id, player_id, elo_gains, matches_played, dry_wins,
					total_wins, longest_streak, total_points, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (season_id, player_id) DO UPDATE SET
					elo_gains = EXCLUDED.elo_gains,
					matches_played = EXCLUDED.matches_played,
					dry_wins = EXCLUDED.dry_wins,
					total_wins = EXCLUDED.total_wins,
					longest_streak = EXCLUDED.longest_streak,
					total_points = EXCLUDED.total_points,
					updated_at = EXCLUDED.updated_at
			`,
				s.SeasonID.String(),
				ps.PlayerID,
				ps.EloGains,
				ps.MatchesPlayed,
				ps.DryWins,
				ps.TotalWins,
				ps.LongestStreak,
				ps.TotalPoints,
				s.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert player stats: %w", err)
			}
		}
		return nil
	})
}
