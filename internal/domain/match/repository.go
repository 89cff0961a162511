package match

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The match ledger is append-only: there is no update and no delete.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines persistence operations for the match ledger.
type Repository interface {
	// Append stores a finalized match. The match must pass Validate().
	Append(ctx context.Context, m *Match) error

	// GetByID returns a match by internal ID.
	// Returns shared.ErrMatchNotFound when missing.
	GetByID(ctx context.Context, id string) (*Match, error)

	// GetBySeason returns every match of a season in chronological order
	// (ascending PlayedAt).
	GetBySeason(ctx context.Context, seasonID string) ([]*Match, error)

	// GetByPlayerAndSeason returns a player's matches within a season in
	// chronological order (ascending PlayedAt).
	GetByPlayerAndSeason(ctx context.Context, playerID, seasonID string) ([]*Match, error)

	// CountBySeason returns the number of matches recorded in a season.
	CountBySeason(ctx context.Context, seasonID string) (int, error)
}
