package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// MatchRepository is an in-memory append-only match.Repository.
type MatchRepository struct {
	mu       sync.RWMutex
	byID     map[string]*match.Match
	bySeason map[string][]*match.Match
}

// NewMatchRepository creates an empty in-memory match ledger.
func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		byID:     make(map[string]*match.Match),
		bySeason: make(map[string][]*match.Match),
	}
}

func cloneMatch(m *match.Match) *match.Match {
	cp := *m
	return &cp
}

// Append stores a finalized match.
func (r *MatchRepository) Append(_ context.Context, m *match.Match) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return shared.ErrAlreadyExists
	}
	stored := cloneMatch(m)
	r.byID[m.ID] = stored
	r.bySeason[m.SeasonID] = append(r.bySeason[m.SeasonID], stored)
	return nil
}

// GetByID returns a match by internal ID.
func (r *MatchRepository) GetByID(_ context.Context, id string) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

// GetBySeason returns a season's matches in chronological order.
func (r *MatchRepository) GetBySeason(_ context.Context, seasonID string) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*match.Match, 0, len(r.bySeason[seasonID]))
	for _, m := range r.bySeason[seasonID] {
		out = append(out, cloneMatch(m))
	}
	sortChronological(out)
	return out, nil
}

// GetByPlayerAndSeason returns a player's season matches in chronological order.
func (r *MatchRepository) GetByPlayerAndSeason(_ context.Context, playerID, seasonID string) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*match.Match
	for _, m := range r.bySeason[seasonID] {
		if m.HasPlayer(playerID) {
			out = append(out, cloneMatch(m))
		}
	}
	sortChronological(out)
	return out, nil
}

// CountBySeason returns the number of matches recorded in a season.
func (r *MatchRepository) CountBySeason(_ context.Context, seasonID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySeason[seasonID]), nil
}

func sortChronological(ms []*match.Match) {
	slices.SortFunc(ms, func(a, b *match.Match) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})
}
