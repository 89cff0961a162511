package player

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines persistence operations for players.
type Repository interface {
	// Create stores a new player.
	// Returns shared.ErrPlayerAlreadyExists when the handle is taken.
	Create(ctx context.Context, p *Player) error

	// GetByID returns a player by internal ID.
	// Returns shared.ErrPlayerNotFound when missing.
	GetByID(ctx context.Context, id string) (*Player, error)

	// GetByUsername returns a player by normalized handle.
	// Returns shared.ErrPlayerNotFound when missing.
	GetByUsername(ctx context.Context, username Username) (*Player, error)

	// GetByTelegramID returns a player by Telegram ID.
	// Returns shared.ErrPlayerNotFound when missing.
	GetByTelegramID(ctx context.Context, telegramID TelegramID) (*Player, error)

	// GetByIDs returns players for the given IDs, in no particular order.
	// A missing ID is reported as shared.ErrPlayerNotFound.
	GetByIDs(ctx context.Context, ids []string) ([]*Player, error)

	// GetAll returns every registered player.
	GetAll(ctx context.Context) ([]*Player, error)

	// Update persists mutable player state (rating, alias, timestamps).
	Update(ctx context.Context, p *Player) error

	// SetSeasonStartElo persists a season baseline entry for a player.
	// The write is a no-op when an entry for (player, season) already
	// exists; the stored value is never overwritten.
	SetSeasonStartElo(ctx context.Context, playerID, seasonID string, elo int) error

	// Exists checks for a player by internal ID.
	Exists(ctx context.Context, id string) (bool, error)
}
