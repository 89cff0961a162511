package handler

import (
	"context"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS HANDLER
// Handles /stats - the player card: lifetime rating plus the season counters.
// Without arguments it shows the caller's own card.
// ══════════════════════════════════════════════════════════════════════════════

// StatsHandler handles the /stats command.
type StatsHandler struct {
	stats *query.GetPlayerStatsHandler
	cards *presenter.PlayerCardPresenter
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *query.GetPlayerStatsHandler, cards *presenter.PlayerCardPresenter) *StatsHandler {
	return &StatsHandler{stats: stats, cards: cards}
}

// StatsRequest contains the parsed /stats command data.
type StatsRequest struct {
	TelegramID int64

	// Args: "/stats", "/stats @nick" or "/stats @nick 2025-07".
	Args string
}

// Handle shows the requested player card.
func (h *StatsHandler) Handle(ctx context.Context, req StatsRequest) (*Response, error) {
	q := query.GetPlayerStatsQuery{TelegramID: req.TelegramID}

	fields := strings.Fields(req.Args)
	if len(fields) > 0 {
		q.TelegramID = 0
		q.Username = strings.TrimPrefix(fields[0], "@")
	}
	if len(fields) > 1 {
		q.SeasonID = fields[1]
	}

	result, err := h.stats.Handle(ctx, q)
	if err != nil {
		return &Response{Text: errorText(err)}, nil
	}

	return &Response{Text: h.cards.Card(result)}, nil
}
