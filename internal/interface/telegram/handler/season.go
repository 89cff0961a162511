package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/season"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEASON HANDLER
// Handles /season - the podium of a finished season. Without arguments it
// shows last month; "/season 2025-07" shows a specific one. Admins can force
// the monthly rollover with "/season rollover" (the saga is idempotent, so
// a double trigger is harmless).
// ══════════════════════════════════════════════════════════════════════════════

// SeasonHandler handles the /season command.
type SeasonHandler struct {
	winners    *query.GetSeasonWinnersHandler
	transition *saga.SeasonTransitionSaga
	boards     *presenter.LeaderboardPresenter
	admins     map[int64]struct{}
	now        func() time.Time
}

// NewSeasonHandler creates a new SeasonHandler.
func NewSeasonHandler(
	winners *query.GetSeasonWinnersHandler,
	transition *saga.SeasonTransitionSaga,
	boards *presenter.LeaderboardPresenter,
	adminIDs []int64,
) *SeasonHandler {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &SeasonHandler{
		winners:    winners,
		transition: transition,
		boards:     boards,
		admins:     admins,
		now:        time.Now,
	}
}

// SeasonRequest contains the parsed /season command data.
type SeasonRequest struct {
	TelegramID int64
	Args       string
}

// Handle shows a season podium or runs the admin rollover.
func (h *SeasonHandler) Handle(ctx context.Context, req SeasonRequest) (*Response, error) {
	args := strings.TrimSpace(req.Args)

	if args == "rollover" {
		return h.handleRollover(ctx, req.TelegramID)
	}

	seasonID := args
	if seasonID == "" {
		seasonID = season.Of(h.now()).Previous().String()
	}

	result, err := h.winners.Handle(ctx, query.GetSeasonWinnersQuery{SeasonID: seasonID})
	if err != nil {
		return &Response{Text: errorText(err)}, nil
	}

	return &Response{Text: h.boards.Podium(result)}, nil
}

// handleRollover force-runs the season transition.
func (h *SeasonHandler) handleRollover(ctx context.Context, telegramID int64) (*Response, error) {
	if _, ok := h.admins[telegramID]; !ok {
		return &Response{Text: "Эта команда доступна только администраторам лиги."}, nil
	}

	result, err := h.transition.Execute(ctx)
	if err != nil {
		return &Response{Text: errorText(err)}, nil
	}

	return &Response{
		Text: fmt.Sprintf("🔄 <b>Переход сезона выполнен</b>\n\n"+
			"Закрыт: %s\nОткрыт: %s\nПобедителей: %d\nУведомлений отправлено: %d",
			result.PreviousSeasonID, result.NewSeasonID,
			len(result.Winners), result.NotificationsSent),
	}, nil
}
