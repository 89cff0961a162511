// Package memory implements in-memory persistence for the kicker league.
// It backs the development mode without PostgreSQL and the test suites.
// All repositories are safe for concurrent use.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// PlayerRepository is an in-memory player.Repository.
type PlayerRepository struct {
	mu      sync.RWMutex
	byID    map[string]*player.Player
	byName  map[player.Username]string
	byTgID  map[player.TelegramID]string
}

// NewPlayerRepository creates an empty in-memory player repository.
func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:   make(map[string]*player.Player),
		byName: make(map[player.Username]string),
		byTgID: make(map[player.TelegramID]string),
	}
}

// clone copies a player so callers never share mutable state with the store.
func clonePlayer(p *player.Player) *player.Player {
	cp := *p
	cp.SeasonStartElo = maps.Clone(p.SeasonStartElo)
	if cp.SeasonStartElo == nil {
		cp.SeasonStartElo = make(map[string]int)
	}
	return &cp
}

// Create stores a new player.
func (r *PlayerRepository) Create(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return shared.ErrPlayerAlreadyExists
	}
	if _, ok := r.byName[p.Username]; ok {
		return shared.ErrPlayerAlreadyExists
	}
	r.byID[p.ID] = clonePlayer(p)
	r.byName[p.Username] = p.ID
	if p.TelegramID.IsValid() {
		r.byTgID[p.TelegramID] = p.ID
	}
	return nil
}

// GetByID returns a player by internal ID.
func (r *PlayerRepository) GetByID(_ context.Context, id string) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrPlayerNotFound
	}
	return clonePlayer(p), nil
}

// GetByUsername returns a player by normalized handle.
func (r *PlayerRepository) GetByUsername(ctx context.Context, username player.Username) (*player.Player, error) {
	r.mu.RLock()
	id, ok := r.byName[username.Normalize()]
	r.mu.RUnlock()
	if !ok {
		return nil, shared.ErrPlayerNotFound
	}
	return r.GetByID(ctx, id)
}

// GetByTelegramID returns a player by Telegram ID.
func (r *PlayerRepository) GetByTelegramID(ctx context.Context, telegramID player.TelegramID) (*player.Player, error) {
	r.mu.RLock()
	id, ok := r.byTgID[telegramID]
	r.mu.RUnlock()
	if !ok {
		return nil, shared.ErrPlayerNotFound
	}
	return r.GetByID(ctx, id)
}

// GetByIDs returns players for the given IDs.
func (r *PlayerRepository) GetByIDs(_ context.Context, ids []string) ([]*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*player.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.byID[id]
		if !ok {
			return nil, shared.ErrPlayerNotFound
		}
		out = append(out, clonePlayer(p))
	}
	return out, nil
}

// GetAll returns every registered player.
func (r *PlayerRepository) GetAll(_ context.Context) ([]*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*player.Player, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePlayer(p))
	}
	return out, nil
}

// Update persists mutable player state.
func (r *PlayerRepository) Update(_ context.Context, p *player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[p.ID]
	if !ok {
		return shared.ErrPlayerNotFound
	}
	// Season baselines are write-once: keep entries the caller lost.
	merged := clonePlayer(p)
	for season, elo := range stored.SeasonStartElo {
		if _, exists := merged.SeasonStartElo[season]; !exists {
			merged.SeasonStartElo[season] = elo
		}
	}
	r.byID[p.ID] = merged
	return nil
}

// SetSeasonStartElo persists a season baseline, never overwriting.
func (r *PlayerRepository) SetSeasonStartElo(_ context.Context, playerID, seasonID string, elo int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[playerID]
	if !ok {
		return shared.ErrPlayerNotFound
	}
	if _, exists := p.SeasonStartElo[seasonID]; exists {
		return nil
	}
	p.SeasonStartElo[seasonID] = elo
	return nil
}

// Exists checks for a player by internal ID.
func (r *PlayerRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}
