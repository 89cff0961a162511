// Package match contains the immutable match ledger domain model.
// A match is created once when the result is confirmed in the chat dialog
// and is never mutated or deleted afterwards. Season statistics are always
// re-derived from this ledger, which makes it the single source of truth.
package match

import (
	"regexp"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// TeamSize is fixed: the league plays 2-vs-2 only.
const TeamSize = 2

// seasonIDRegex validates the YYYY-MM season identifier format.
var seasonIDRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidSeasonID reports whether s is a well-formed season identifier.
func IsValidSeasonID(s string) bool {
	return seasonIDRegex.MatchString(s)
}

// Match is an immutable record of a finished 2-vs-2 game.
//
// Winners and Losers hold player IDs; WinnerEloChanges and LoserEloChanges
// hold the signed rating deltas applied to each player, in the same order
// as the pair arrays.
type Match struct {
	// ID is the internal identifier (UUID).
	ID string

	// SeasonID is the season this match belongs to (YYYY-MM).
	SeasonID string

	// Winners are the two players of the winning pair.
	Winners [TeamSize]string

	// Losers are the two players of the losing pair.
	Losers [TeamSize]string

	// WinnerEloChanges are the deltas applied to the winners, pair order.
	WinnerEloChanges [TeamSize]int

	// LoserEloChanges are the deltas applied to the losers, pair order.
	LoserEloChanges [TeamSize]int

	// IsDryWin is true when the losing pair did not score at all.
	IsDryWin bool

	// PlayedAt is the moment the result was recorded.
	PlayedAt time.Time
}

// Validate checks the ledger invariants: exactly 2 winners and 2 losers,
// 4 distinct player identities, well-formed season ID.
func (m *Match) Validate() error {
	if !IsValidSeasonID(m.SeasonID) {
		return shared.ErrInvalidSeasonID
	}

	seen := make(map[string]struct{}, 2*TeamSize)
	for _, id := range append(m.Winners[:], m.Losers[:]...) {
		if id == "" {
			return shared.ErrInvalidTeamSize
		}
		if _, dup := seen[id]; dup {
			return shared.ErrDuplicatePlayers
		}
		seen[id] = struct{}{}
	}
	return nil
}

// HasWinner reports whether the player is on the winning pair.
func (m *Match) HasWinner(playerID string) bool {
	return m.Winners[0] == playerID || m.Winners[1] == playerID
}

// HasPlayer reports whether the player took part on either side.
func (m *Match) HasPlayer(playerID string) bool {
	return m.HasWinner(playerID) ||
		m.Losers[0] == playerID || m.Losers[1] == playerID
}

// PlayerIDs returns all four participant IDs, winners first.
func (m *Match) PlayerIDs() []string {
	return []string{m.Winners[0], m.Winners[1], m.Losers[0], m.Losers[1]}
}

// dryWinEloThreshold is the mean loser delta at or below which a match is
// classified as a dry win when no explicit flag was supplied.
const dryWinEloThreshold = -15

// DryWinByEloDelta approximates the dry-win flag from the losing pair's
// rating deltas: mean delta <= -15 counts as a dry win.
//
// Deprecated: this heuristic exists only for submissions that did not carry
// an explicit flag. The chat dialog always asks and supplies the flag; prefer
// the explicit answer.
func DryWinByEloDelta(loserChanges [TeamSize]int) bool {
	sum := 0
	for _, c := range loserChanges {
		sum += c
	}
	avg := float64(sum) / float64(TeamSize)
	return avg <= dryWinEloThreshold
}
