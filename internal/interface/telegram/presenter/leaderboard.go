package presenter

import (
	"fmt"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD PRESENTER
// Renders the season leaderboard: the points summary and the five
// per-category rankings. Tied players share a rank, so consecutive rows may
// repeat the same position.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardPresenter formats leaderboard query results.
type LeaderboardPresenter struct{}

// NewLeaderboardPresenter creates a new LeaderboardPresenter.
func NewLeaderboardPresenter() *LeaderboardPresenter {
	return &LeaderboardPresenter{}
}

// categoryTitles maps the callback view keys to display headers.
var categoryTitles = map[string]string{
	"elo_gains":      "📈 Прирост Elo за сезон",
	"matches_played": "🎮 Сыграно матчей",
	"dry_wins":       "🧹 Сухие победы",
	"total_wins":     "✅ Победы",
	"longest_streak": "🔥 Длиннейшая серия побед",
}

// Summary renders the total-points standings of the season.
func (p *LeaderboardPresenter) Summary(result *query.GetLeaderboardResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 <b>Сезон %s — общий зачёт</b>\n\n", result.SeasonID)

	if len(result.Summary) == 0 {
		sb.WriteString("Пока нет сыгранных матчей. Начни сезон: /game")
		return sb.String()
	}

	for _, e := range result.Summary {
		fmt.Fprintf(&sb, "%s <b>%s</b> — %d очков\n",
			positionMark(e.Rank), escapeHTML(e.DisplayName), e.Value)
	}

	sb.WriteString("\n<i>Очки: 3 за 1-е место в категории, 2 за 2-е, 1 за 3-е.</i>")
	return sb.String()
}

// Category renders one category ranking of the season.
func (p *LeaderboardPresenter) Category(result *query.GetLeaderboardResult, category string) string {
	title, ok := categoryTitles[category]
	if !ok {
		return p.Summary(result)
	}

	var entries []query.RankedEntryDTO
	switch category {
	case "elo_gains":
		entries = result.Categories.EloGains
	case "matches_played":
		entries = result.Categories.MatchesPlayed
	case "dry_wins":
		entries = result.Categories.DryWins
	case "total_wins":
		entries = result.Categories.TotalWins
	case "longest_streak":
		entries = result.Categories.LongestStreak
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n<b>Сезон %s</b>\n\n", title, result.SeasonID)

	if len(entries) == 0 {
		sb.WriteString("Пока нет сыгранных матчей.")
		return sb.String()
	}

	for _, e := range entries {
		fmt.Fprintf(&sb, "%s <b>%s</b> — %d\n",
			positionMark(e.Rank), escapeHTML(e.DisplayName), e.Value)
	}
	return sb.String()
}

// Podium renders the final winners of a season.
func (p *LeaderboardPresenter) Podium(result *query.GetSeasonWinnersResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏅 <b>Итоги сезона %s</b>\n\n", result.SeasonID)

	if len(result.Winners) == 0 {
		sb.WriteString("В этом сезоне не было сыграно ни одного матча.")
		return sb.String()
	}

	for _, w := range result.Winners {
		fmt.Fprintf(&sb, "%s <b>%s</b> — %d очков\n",
			positionMark(w.Rank), escapeHTML(w.DisplayName), w.Value)
	}
	return sb.String()
}

// positionMark returns the medal for podium places and "N." for the rest.
func positionMark(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// escapeHTML escapes the characters Telegram's HTML parse mode cares about.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
