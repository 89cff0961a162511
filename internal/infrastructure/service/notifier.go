// Package service contains infrastructure adapters that implement the
// application layer's outbound ports.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/external/telegram"
	"github.com/kicker-hub/kicker-league-bot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// TELEGRAM NOTIFIER
// Implements saga.Notifier. Each player gets a single message with the
// closed season's podium in it. Transient API failures are retried; an
// unreachable recipient (blocked bot, deleted chat) fails fast so the
// season transition can move on to the next player.
// ══════════════════════════════════════════════════════════════════════════════

// medals maps podium ranks to their medal emoji.
var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// TelegramNotifier delivers season announcements through the Bot API.
type TelegramNotifier struct {
	client  *telegram.Client
	retrier *retry.Retrier
	logger  *slog.Logger
}

// NewTelegramNotifier creates the notifier.
func NewTelegramNotifier(client *telegram.Client, logger *slog.Logger) *TelegramNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramNotifier{
		client:  client,
		retrier: retry.TelegramRetrier(),
		logger:  logger,
	}
}

// NotifyWinner congratulates one podium player personally: their own place
// and points plus the full podium.
func (n *TelegramNotifier) NotifyWinner(ctx context.Context, telegramID int64, seasonID string, rank, points int, podium []saga.Winner) error {
	medal := medals[rank]
	if medal == "" {
		medal = "🏆"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>Поздравляем!</b>\n\n", medal)
	fmt.Fprintf(&sb, "Сезон <b>%s</b> завершён, и вы заняли <b>%d место</b> с <b>%d очками</b>!\n",
		escapeHTML(seasonID), rank, points)
	sb.WriteString(podiumBlock(podium))
	sb.WriteString("\nНовый сезон уже начался — вперёд к новым победам! ⚽")
	return n.send(ctx, telegramID, sb.String())
}

// AnnounceSeason tells one player the season's results and that the new
// season has started.
func (n *TelegramNotifier) AnnounceSeason(ctx context.Context, telegramID int64, closedSeasonID, newSeasonID string, podium []saga.Winner) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 Сезон <b>%s</b> завершён!\n", escapeHTML(closedSeasonID))
	sb.WriteString(podiumBlock(podium))
	fmt.Fprintf(&sb, "\nНачался новый сезон <b>%s</b>: все счётчики обнулены, рейтинг сохранён. Записывайте матчи через /game и следите за таблицей через /top.",
		escapeHTML(newSeasonID))
	return n.send(ctx, telegramID, sb.String())
}

// podiumBlock renders the top-3 list shared by both message templates.
// An empty podium (a season without matches) renders nothing.
func podiumBlock(podium []saga.Winner) string {
	if len(podium) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nПодиум сезона:\n")
	for _, w := range podium {
		medal := medals[w.Rank]
		if medal == "" {
			medal = fmt.Sprintf("%d.", w.Rank)
		}
		fmt.Fprintf(&sb, "%s <b>%s</b> — %d очков\n", medal, escapeHTML(w.DisplayName), w.TotalPoints)
	}
	return sb.String()
}

// escapeHTML escapes the characters Telegram's HTML parse mode reserves.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// send delivers one message with retries on transient failures.
func (n *TelegramNotifier) send(ctx context.Context, telegramID int64, text string) error {
	err := n.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := n.client.SendHTML(ctx, telegramID, text)
		if err == nil {
			return nil
		}
		if telegram.IsUnreachableRecipient(err) || !telegram.IsRetryableError(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return shared.WrapError("notification", "Send", shared.ErrExternalService,
			"failed to deliver telegram message", err)
	}
	return nil
}
