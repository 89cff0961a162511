package season

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The aggregate is saved as a whole (read-modify-write). The aggregator
// serializes recompute-and-save per season, so the store needs no atomic
// upsert of individual fields.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines persistence operations for season statistics.
type Repository interface {
	// GetOrCreate returns the season's aggregate, creating an empty one on
	// first reference.
	GetOrCreate(ctx context.Context, id ID) (*Stats, error)

	// Get returns the season's aggregate.
	// Returns shared.ErrSeasonNotFound when the season was never touched.
	Get(ctx context.Context, id ID) (*Stats, error)

	// Save persists the whole aggregate.
	Save(ctx context.Context, s *Stats) error
}
