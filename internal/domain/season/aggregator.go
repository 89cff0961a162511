package season

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/match"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON AGGREGATOR
// Re-derives per-player season statistics from the match ledger. Raw fields
// are always recomputed from the full filtered history, never from a delta,
// which makes repeated and interleaved recomputes idempotent per player.
// Recompute-and-save is serialized per season with a mutex so a stale total
// points pass can never overwrite a newer one.
// ══════════════════════════════════════════════════════════════════════════════

// Aggregator recomputes season statistics from the match ledger.
type Aggregator struct {
	seasons Repository
	matches match.Repository
	players player.Repository

	mu    sync.Mutex
	locks map[ID]*sync.Mutex

	now func() time.Time
}

// NewAggregator creates an Aggregator over the given repositories.
func NewAggregator(seasons Repository, matches match.Repository, players player.Repository) *Aggregator {
	return &Aggregator{
		seasons: seasons,
		matches: matches,
		players: players,
		locks:   make(map[ID]*sync.Mutex),
		now:     time.Now,
	}
}

// WithClock overrides the time source. Used in tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// seasonLock returns the serialization point for one season.
func (a *Aggregator) seasonLock(id ID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[id]
	if !ok {
		l = &sync.Mutex{}
		a.locks[id] = l
	}
	return l
}

// EnsureSeasonBaseline records the season-start Elo for every given player
// that has none yet, using each player's current rating. Existing baselines
// are never overwritten; calling this twice for the same (player, season)
// has no additional effect.
func (a *Aggregator) EnsureSeasonBaseline(ctx context.Context, id ID, playerIDs []string) error {
	for _, pid := range playerIDs {
		p, err := a.players.GetByID(ctx, pid)
		if err != nil {
			return err
		}
		if p.EnsureSeasonStartElo(id.String()) {
			if err := a.players.SetSeasonStartElo(ctx, p.ID, id.String(), p.CurrentElo.Int()); err != nil {
				return shared.WrapError("season", "EnsureSeasonBaseline", shared.ErrExternalService,
					"failed to persist season-start elo", err)
			}
		}
	}
	return nil
}

// RecomputeForMatch updates the season aggregate after a newly recorded
// match: raw category fields for the four touched players, then total
// points for every player of the season (one match can reorder untouched
// players too).
//
// The match is expected to be in the ledger already. Aggregation failure
// never rolls the match back; the aggregate is a cache repairable by
// RebuildSeason.
func (a *Aggregator) RecomputeForMatch(ctx context.Context, m *match.Match) (*Stats, error) {
	id := ID(m.SeasonID)
	lock := a.seasonLock(id)
	lock.Lock()
	defer lock.Unlock()

	stats, err := a.seasons.GetOrCreate(ctx, id)
	if err != nil {
		return nil, shared.WrapError("season", "RecomputeForMatch", shared.ErrExternalService,
			"failed to load season stats", err)
	}

	if err := a.recomputePlayers(ctx, stats, m.PlayerIDs()); err != nil {
		return nil, err
	}

	a.recomputePoints(stats)

	if err := a.seasons.Save(ctx, stats); err != nil {
		return nil, shared.WrapError("season", "RecomputeForMatch", shared.ErrExternalService,
			"failed to save season stats", err)
	}
	return stats, nil
}

// RebuildSeason re-derives the whole aggregate for a season from scratch.
// Running it on an unchanged ledger yields an identical aggregate; it is
// the repair path when an earlier aggregation failed mid-way.
func (a *Aggregator) RebuildSeason(ctx context.Context, id ID) (*Stats, error) {
	lock := a.seasonLock(id)
	lock.Lock()
	defer lock.Unlock()

	stats, err := a.seasons.GetOrCreate(ctx, id)
	if err != nil {
		return nil, shared.WrapError("season", "RebuildSeason", shared.ErrExternalService,
			"failed to load season stats", err)
	}

	all, err := a.matches.GetBySeason(ctx, id.String())
	if err != nil {
		return nil, shared.WrapError("season", "RebuildSeason", shared.ErrExternalService,
			"failed to load season matches", err)
	}

	touched := make(map[string]struct{})
	for _, m := range all {
		for _, pid := range m.PlayerIDs() {
			touched[pid] = struct{}{}
		}
	}
	ids := make([]string, 0, len(touched))
	for pid := range touched {
		ids = append(ids, pid)
	}
	slices.Sort(ids)

	if err := a.recomputePlayers(ctx, stats, ids); err != nil {
		return nil, err
	}

	a.recomputePoints(stats)

	if err := a.seasons.Save(ctx, stats); err != nil {
		return nil, shared.WrapError("season", "RebuildSeason", shared.ErrExternalService,
			"failed to save season stats", err)
	}
	return stats, nil
}

// recomputePlayers re-derives the raw category fields for the given players
// from their full season match history. Caller holds the season lock.
func (a *Aggregator) recomputePlayers(ctx context.Context, stats *Stats, playerIDs []string) error {
	seasonID := stats.SeasonID.String()
	now := a.now()

	for _, pid := range playerIDs {
		p, err := a.players.GetByID(ctx, pid)
		if err != nil {
			return err
		}

		// Season-start baseline must exist before the Elo-gain
		// calculation. Usually written earlier in the record flow;
		// this call is an idempotent no-op then.
		if p.EnsureSeasonStartElo(seasonID) {
			if err := a.players.SetSeasonStartElo(ctx, p.ID, seasonID, p.CurrentElo.Int()); err != nil {
				return shared.WrapError("season", "Recompute", shared.ErrExternalService,
					"failed to persist season-start elo", err)
			}
		}

		history, err := a.matches.GetByPlayerAndSeason(ctx, pid, seasonID)
		if err != nil {
			return shared.WrapError("season", "Recompute", shared.ErrExternalService,
				"failed to load player match history", err)
		}

		wins, dryWins := 0, 0
		for _, m := range history {
			if m.HasWinner(pid) {
				wins++
				if m.IsDryWin {
					dryWins++
				}
			}
		}

		stats.UpsertRaw(pid,
			p.SeasonEloGains(seasonID),
			len(history),
			dryWins,
			wins,
			LongestWinStreak(pid, history),
			now,
		)
	}
	return nil
}

// recomputePoints recomputes total points for every player of the season.
func (a *Aggregator) recomputePoints(stats *Stats) {
	now := a.now()
	for pid, points := range ComputeTotalPoints(stats) {
		stats.SetPoints(pid, points, now)
	}
}

// LongestWinStreak returns the longest run of consecutive wins in the
// player's matches, ordered by play time ascending. A loss resets the run;
// no matches or no wins yield 0.
func LongestWinStreak(playerID string, history []*match.Match) int {
	ordered := make([]*match.Match, len(history))
	copy(ordered, history)
	slices.SortFunc(ordered, func(a, b *match.Match) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})

	current, longest := 0, 0
	for _, m := range ordered {
		if m.HasWinner(playerID) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
