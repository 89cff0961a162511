package presenter

import (
	"fmt"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH PRESENTER
// Renders the match-entry dialog steps and the recorded result with the
// rating movement of all four players.
// ══════════════════════════════════════════════════════════════════════════════

// MatchPresenter formats match dialog messages.
type MatchPresenter struct{}

// NewMatchPresenter creates a new MatchPresenter.
func NewMatchPresenter() *MatchPresenter {
	return &MatchPresenter{}
}

// AskWinners is the first dialog step.
func (p *MatchPresenter) AskWinners() string {
	return "⚽ <b>Новый матч</b>\n\n" +
		"Кто выиграл? Отправь два ника через пробел:\n" +
		"<code>@alice @bob</code>"
}

// AskLosers is the second dialog step.
func (p *MatchPresenter) AskLosers(winners [2]string) string {
	return fmt.Sprintf("Победители: <b>%s</b> и <b>%s</b> 💪\n\n"+
		"Кто проиграл? Отправь два ника через пробел.",
		escapeHTML(winners[0]), escapeHTML(winners[1]))
}

// AskDryWin is the third dialog step.
func (p *MatchPresenter) AskDryWin() string {
	return "Это была сухая победа? (проигравшие не забили ни одного гола)"
}

// Confirmation shows the draft before it is written to the ledger.
func (p *MatchPresenter) Confirmation(winners, losers [2]string, dryKnown, isDry bool) string {
	dry := "не указано"
	if dryKnown {
		dry = "нет"
		if isDry {
			dry = "да 🧹"
		}
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Проверь матч</b>\n\n")
	fmt.Fprintf(&sb, "Победили: <b>%s</b> и <b>%s</b>\n",
		escapeHTML(winners[0]), escapeHTML(winners[1]))
	fmt.Fprintf(&sb, "Проиграли: <b>%s</b> и <b>%s</b>\n",
		escapeHTML(losers[0]), escapeHTML(losers[1]))
	fmt.Fprintf(&sb, "Сухая победа: %s\n", dry)
	return sb.String()
}

// Recorded renders the outcome of a recorded match.
func (p *MatchPresenter) Recorded(result *command.RecordMatchResult) string {
	var sb strings.Builder
	sb.WriteString("✅ <b>Матч записан!</b>")
	if result.IsDryWin {
		sb.WriteString(" 🧹 Сухая победа!")
	}
	sb.WriteString("\n\n")

	for _, w := range result.Winners {
		fmt.Fprintf(&sb, "📈 <b>%s</b>: %d → %d (%s)\n",
			escapeHTML(w.DisplayName), w.OldElo, w.NewElo, signed(w.Change))
	}
	for _, l := range result.Losers {
		fmt.Fprintf(&sb, "📉 <b>%s</b>: %d → %d (%s)\n",
			escapeHTML(l.DisplayName), l.OldElo, l.NewElo, signed(l.Change))
	}

	fmt.Fprintf(&sb, "\n<i>Сезон %s • /top — текущий рейтинг</i>", result.SeasonID)
	return sb.String()
}

// signed formats a rating delta with an explicit sign.
func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
