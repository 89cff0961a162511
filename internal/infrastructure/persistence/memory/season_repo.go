package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// SeasonRepository is an in-memory season.Repository.
type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[season.ID]*season.Stats
}

// NewSeasonRepository creates an empty in-memory season store.
func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		seasons: make(map[season.ID]*season.Stats),
	}
}

func cloneStats(s *season.Stats) *season.Stats {
	cp := *s
	cp.PlayerStats = make(map[string]*season.PlayerStats, len(s.PlayerStats))
	for id, ps := range s.PlayerStats {
		entry := *ps
		cp.PlayerStats[id] = &entry
	}
	return &cp
}

// GetOrCreate returns the season aggregate, creating an empty one on first
// reference.
func (r *SeasonRepository) GetOrCreate(_ context.Context, id season.ID) (*season.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seasons[id]
	if !ok {
		s = season.NewStats(id, time.Now())
		r.seasons[id] = s
	}
	return cloneStats(s), nil
}

// Get returns the season aggregate.
func (r *SeasonRepository) Get(_ context.Context, id season.ID) (*season.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[id]
	if !ok {
		return nil, shared.ErrSeasonNotFound
	}
	return cloneStats(s), nil
}

// Save persists the whole aggregate.
func (r *SeasonRepository) Save(_ context.Context, s *season.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seasons[s.SeasonID] = cloneStats(s)
	return nil
}
