// Package player contains the player domain model of the kicker league.
// This is core business logic - no external dependencies beyond the shared kernel.
package player

import (
	"strings"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// TelegramID represents a unique Telegram user identifier.
type TelegramID int64

// IsValid checks that the TelegramID is positive.
func (t TelegramID) IsValid() bool {
	return t > 0
}

// Int64 returns the underlying int64 value.
func (t TelegramID) Int64() int64 {
	return int64(t)
}

// Username represents a player's unique handle (Telegram username or
// an office nickname assigned at registration).
type Username string

// IsValid checks the handle format: 2-32 characters, no whitespace.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 2 && len(s) <= 32 && !strings.ContainsAny(s, " \t\n\r")
}

// Normalize returns the lowercase form used as the identity key.
func (u Username) Normalize() Username {
	return Username(strings.ToLower(strings.TrimSpace(string(u))))
}

// String returns the string representation.
func (u Username) String() string {
	return string(u)
}

// NewUsername creates a Username with validation.
func NewUsername(s string) (Username, error) {
	u := Username(strings.TrimSpace(s))
	if !u.IsValid() {
		return "", shared.ErrInvalidUsername
	}
	return u.Normalize(), nil
}

// Elo represents a player's rating.
type Elo int

const (
	// InitialElo is assigned to every freshly registered player.
	InitialElo Elo = 1000

	// MinElo is the rating floor. Ratings never go below zero.
	MinElo Elo = 0
)

// Int returns the underlying int value.
func (e Elo) Int() int {
	return int(e)
}

// Apply adds a signed change and floors the result at MinElo.
func (e Elo) Apply(change int) Elo {
	result := Elo(int(e) + change)
	if result < MinElo {
		return MinElo
	}
	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Player is the aggregate root for a league participant.
//
// SeasonStartElo keeps the rating recorded at the start of each season the
// player has touched. An entry is written at most once per season: either on
// the player's first match of the season or when the month-end transition
// bootstraps the new season. It is the baseline for the "Elo gained this
// season" statistic.
type Player struct {
	// ID is the internal identifier (UUID).
	ID string

	// TelegramID identifies the player for notifications. Zero means the
	// player was registered manually and cannot be notified.
	TelegramID TelegramID

	// Username is the unique handle.
	Username Username

	// Alias optionally overrides the handle for presentation.
	Alias string

	// CurrentElo is the live rating, mutated after every match.
	CurrentElo Elo

	// SeasonStartElo maps season ID (YYYY-MM) to the rating recorded at
	// that season's start. Write-once per season.
	SeasonStartElo map[string]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPlayer creates a freshly registered player with the initial rating.
func NewPlayer(id string, telegramID TelegramID, username Username, now time.Time) *Player {
	return &Player{
		ID:             id,
		TelegramID:     telegramID,
		Username:       username,
		CurrentElo:     InitialElo,
		SeasonStartElo: make(map[string]int),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// DisplayName returns the alias when set, the handle otherwise.
func (p *Player) DisplayName() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.Username.String()
}

// CanBeNotified reports whether the player has a notification address.
func (p *Player) CanBeNotified() bool {
	return p.TelegramID.IsValid()
}

// ApplyEloChange mutates the current rating by a signed delta, flooring at zero.
func (p *Player) ApplyEloChange(change int, now time.Time) {
	p.CurrentElo = p.CurrentElo.Apply(change)
	p.UpdatedAt = now
}

// EnsureSeasonStartElo records the current rating as the season baseline if
// no baseline exists yet. Returns true when a new entry was written.
// Calling it again for the same season has no effect.
func (p *Player) EnsureSeasonStartElo(seasonID string) bool {
	if p.SeasonStartElo == nil {
		p.SeasonStartElo = make(map[string]int)
	}
	if _, ok := p.SeasonStartElo[seasonID]; ok {
		return false
	}
	p.SeasonStartElo[seasonID] = p.CurrentElo.Int()
	return true
}

// SeasonStart returns the baseline rating for a season and whether it exists.
func (p *Player) SeasonStart(seasonID string) (int, bool) {
	v, ok := p.SeasonStartElo[seasonID]
	return v, ok
}

// SeasonEloGains returns the rating gained since the season baseline,
// clamped at zero. A player currently below the baseline shows 0 gains,
// never a negative number.
func (p *Player) SeasonEloGains(seasonID string) int {
	start, ok := p.SeasonStart(seasonID)
	if !ok {
		return 0
	}
	gains := p.CurrentElo.Int() - start
	if gains < 0 {
		return 0
	}
	return gains
}
