package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY IMPLEMENTATION
// Season baselines live in player_season_elo; the primary-key conflict with
// DO NOTHING makes the baseline write-once without application-side checks.
// ══════════════════════════════════════════════════════════════════════════════

// PlayerRepository implements player.Repository for PostgreSQL.
type PlayerRepository struct {
	conn *Connection
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(conn *Connection) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

const playerColumns = `id, telegram_id, username, alias, current_elo, created_at, updated_at`

// Create stores a new player.
func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query := `
		INSERT INTO players (id, telegram_id, username, alias, current_elo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.TelegramID.Int64(),
		p.Username.String(),
		p.Alias,
		p.CurrentElo.Int(),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPlayerAlreadyExists
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetByID returns a player by internal ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := r.scanPlayer(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return p, r.loadBaselines(ctx, p)
}

// GetByUsername returns a player by normalized handle.
func (r *PlayerRepository) GetByUsername(ctx context.Context, username player.Username) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE username = $1`
	p, err := r.scanPlayer(r.conn.QueryRow(ctx, query, username.Normalize().String()))
	if err != nil {
		return nil, err
	}
	return p, r.loadBaselines(ctx, p)
}

// GetByTelegramID returns a player by Telegram ID.
func (r *PlayerRepository) GetByTelegramID(ctx context.Context, telegramID player.TelegramID) (*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE telegram_id = $1 AND telegram_id <> 0`
	p, err := r.scanPlayer(r.conn.QueryRow(ctx, query, telegramID.Int64()))
	if err != nil {
		return nil, err
	}
	return p, r.loadBaselines(ctx, p)
}

// GetByIDs returns players for the given IDs. A missing ID is an error: the
// callers use this to resolve match participants, where a silent gap would
// corrupt statistics.
func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []string) ([]*player.Player, error) {
	if len(ids) == 0 {
		return []*player.Player{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM players WHERE id IN (%s)`,
		playerColumns, strings.Join(placeholders, ", "))

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by ids: %w", err)
	}
	defer rows.Close()

	players, err := r.scanPlayers(rows)
	if err != nil {
		return nil, err
	}
	if len(players) != len(ids) {
		return nil, shared.ErrPlayerNotFound
	}
	for _, p := range players {
		if err := r.loadBaselines(ctx, p); err != nil {
			return nil, err
		}
	}
	return players, nil
}

// GetAll returns every registered player.
func (r *PlayerRepository) GetAll(ctx context.Context) ([]*player.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY username`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players, err := r.scanPlayers(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if err := r.loadBaselines(ctx, p); err != nil {
			return nil, err
		}
	}
	return players, nil
}

// Update persists mutable player state and any season baselines added since
// the entity was loaded. Stored baselines are never overwritten.
func (r *PlayerRepository) Update(ctx context.Context, p *player.Player) error {
	query := `
		UPDATE players SET
			telegram_id = $1,
			alias = $2,
			current_elo = $3,
			updated_at = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query,
		p.TelegramID.Int64(),
		p.Alias,
		p.CurrentElo.Int(),
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPlayerNotFound
	}

	for seasonID, elo := range p.SeasonStartElo {
		if err := r.SetSeasonStartElo(ctx, p.ID, seasonID, elo); err != nil {
			return err
		}
	}
	return nil
}

// SetSeasonStartElo persists a season baseline entry. The write is a no-op
// when an entry for (player, season) already exists.
func (r *PlayerRepository) SetSeasonStartElo(ctx context.Context, playerID, seasonID string, elo int) error {
	query := `
		INSERT INTO player_season_elo (player_id, season_id, start_elo, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (player_id, season_id) DO NOTHING
	`

	if _, err := r.conn.Exec(ctx, query, playerID, seasonID, elo, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save season baseline: %w", err)
	}
	return nil
}

// Exists checks for a player by internal ID.
func (r *PlayerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)",
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanPlayer scans a single player from a row.
func (r *PlayerRepository) scanPlayer(row pgx.Row) (*player.Player, error) {
	var p player.Player
	var telegramID int64
	var username string
	var currentElo int

	err := row.Scan(
		&p.ID,
		&telegramID,
		&username,
		&p.Alias,
		&currentElo,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}

	p.TelegramID = player.TelegramID(telegramID)
	p.Username = player.Username(username)
	p.CurrentElo = player.Elo(currentElo)
	p.SeasonStartElo = make(map[string]int)
	return &p, nil
}

// scanPlayers scans multiple players from rows.
func (r *PlayerRepository) scanPlayers(rows pgx.Rows) ([]*player.Player, error) {
	var players []*player.Player
	for rows.Next() {
		var p player.Player
		var telegramID int64
		var username string
		var currentElo int

		err := rows.Scan(
			&p.ID,
			&telegramID,
			&username,
			&p.Alias,
			&currentElo,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}

		p.TelegramID = player.TelegramID(telegramID)
		p.Username = player.Username(username)
		p.CurrentElo = player.Elo(currentElo)
		p.SeasonStartElo = make(map[string]int)
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return players, nil
}

// loadBaselines fills the player's season baseline map.
func (r *PlayerRepository) loadBaselines(ctx context.Context, p *player.Player) error {
	rows, err := r.conn.Query(ctx,
		"SELECT season_id, start_elo FROM player_season_elo WHERE player_id = $1", p.ID)
	if err != nil {
		return fmt.Errorf("failed to query season baselines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var seasonID string
		var elo int
		if err := rows.Scan(&seasonID, &elo); err != nil {
			return fmt.Errorf("failed to scan season baseline: %w", err)
		}
		p.SeasonStartElo[seasonID] = elo
	}
	return rows.Err()
}
