package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH REPOSITORY IMPLEMENTATION
// The ledger is insert-only: this type deliberately exposes no UPDATE or
// DELETE. Season statistics are derived from these rows and can always be
// rebuilt, so the rows themselves are the source of truth.
// ══════════════════════════════════════════════════════════════════════════════

// MatchRepository implements match.Repository for PostgreSQL.
type MatchRepository struct {
	conn *Connection
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(conn *Connection) *MatchRepository {
	return &MatchRepository{conn: conn}
}

const matchColumns = `id, season_id, winner1_id, winner2_id, loser1_id, loser2_id,
	   winner1_elo_change, winner2_elo_change, loser1_elo_change, loser2_elo_change,
	   is_dry_win, played_at`

// Append stores a finalized match.
func (r *MatchRepository) Append(ctx context.Context, m *match.Match) error {
	if err := m.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO matches (
			id, season_id, winner1_id, winner2_id, loser1_id, loser2_id,
			winner1_elo_change, winner2_elo_change, loser1_elo_change, loser2_elo_change,
			is_dry_win, played_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Exec(ctx, query,
		m.ID,
		m.SeasonID,
		m.Winners[0], m.Winners[1],
		m.Losers[0], m.Losers[1],
		m.WinnerEloChanges[0], m.WinnerEloChanges[1],
		m.LoserEloChanges[0], m.LoserEloChanges[1],
		m.IsDryWin,
		m.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append match: %w", err)
	}
	return nil
}

// GetByID returns a match by internal ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.conn.QueryRow(ctx, query, id))
}

// GetBySeason returns every match of a season in chronological order.
func (r *MatchRepository) GetBySeason(ctx context.Context, seasonID string) ([]*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE season_id = $1 ORDER BY played_at ASC`

	rows, err := r.conn.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query season matches: %w", err)
	}
	defer rows.Close()

	return r.scanMatches(rows)
}

// GetByPlayerAndSeason returns a player's matches within a season in
// chronological order.
func (r *MatchRepository) GetByPlayerAndSeason(ctx context.Context, playerID, seasonID string) ([]*match.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE season_id = $1
		  AND (winner1_id = $2 OR winner2_id = $2 OR loser1_id = $2 OR loser2_id = $2)
		ORDER BY played_at ASC
	`

	rows, err := r.conn.Query(ctx, query, seasonID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player matches: %w", err)
	}
	defer rows.Close()

	return r.scanMatches(rows)
}

// CountBySeason returns the number of matches recorded in a season.
func (r *MatchRepository) CountBySeason(ctx context.Context, seasonID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM matches WHERE season_id = $1", seasonID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count season matches: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanMatch scans a single match from a row.
func (r *MatchRepository) scanMatch(row pgx.Row) (*match.Match, error) {
	var m match.Match
	err := row.Scan(
		&m.ID,
		&m.SeasonID,
		&m.Winners[0], &m.Winners[1],
		&m.Losers[0], &m.Losers[1],
		&m.WinnerEloChanges[0], &m.WinnerEloChanges[1],
		&m.LoserEloChanges[0], &m.LoserEloChanges[1],
		&m.IsDryWin,
		&m.PlayedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return &m, nil
}

// scanMatches scans multiple matches from rows.
func (r *MatchRepository) scanMatches(rows pgx.Rows) ([]*match.Match, error) {
	var matches []*match.Match
	for rows.Next() {
		var m match.Match
		err := rows.Scan(
			&m.ID,
			&m.SeasonID,
			&m.Winners[0], &m.Winners[1],
			&m.Losers[0], &m.Losers[1],
			&m.WinnerEloChanges[0], &m.WinnerEloChanges[1],
			&m.LoserEloChanges[0], &m.LoserEloChanges[1],
			&m.IsDryWin,
			&m.PlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return matches, nil
}
