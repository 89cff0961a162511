package presenter

import (
	"fmt"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER CARD PRESENTER
// ══════════════════════════════════════════════════════════════════════════════

// PlayerCardPresenter formats the /stats player card.
type PlayerCardPresenter struct{}

// NewPlayerCardPresenter creates a new PlayerCardPresenter.
func NewPlayerCardPresenter() *PlayerCardPresenter {
	return &PlayerCardPresenter{}
}

// Card renders a player's rating and season counters.
func (p *PlayerCardPresenter) Card(r *query.GetPlayerStatsResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>%s</b> (@%s)\n\n", escapeHTML(r.DisplayName), escapeHTML(r.Username))
	fmt.Fprintf(&sb, "⚡ Рейтинг: <b>%d</b>\n", r.CurrentElo)

	gain := r.CurrentElo - r.SeasonStartElo
	fmt.Fprintf(&sb, "📈 За сезон %s: %s (старт %d)\n\n", r.SeasonID, signed(gain), r.SeasonStartElo)

	fmt.Fprintf(&sb, "🎮 Матчей: %d\n", r.MatchesPlayed)
	fmt.Fprintf(&sb, "✅ Побед: %d\n", r.TotalWins)
	fmt.Fprintf(&sb, "🧹 Сухих побед: %d\n", r.DryWins)
	fmt.Fprintf(&sb, "🔥 Лучшая серия: %d\n", r.LongestStreak)
	fmt.Fprintf(&sb, "🏆 Очки сезона: %d\n", r.TotalPoints)
	return sb.String()
}
