package handler

import (
	"context"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOP HANDLER
// Handles /top - the season leaderboard. The default view is the points
// summary; the inline keyboard switches between the five category rankings.
// ══════════════════════════════════════════════════════════════════════════════

// TopHandler handles the /top command.
type TopHandler struct {
	leaderboard *query.GetLeaderboardHandler
	boards      *presenter.LeaderboardPresenter
	keyboards   *presenter.KeyboardBuilder
}

// NewTopHandler creates a new TopHandler.
func NewTopHandler(
	leaderboard *query.GetLeaderboardHandler,
	boards *presenter.LeaderboardPresenter,
	keyboards *presenter.KeyboardBuilder,
) *TopHandler {
	return &TopHandler{
		leaderboard: leaderboard,
		boards:      boards,
		keyboards:   keyboards,
	}
}

// TopRequest contains the parsed /top command data.
type TopRequest struct {
	// Args optionally carries a season: "/top 2025-07".
	Args string
}

// Handle shows the points summary of the requested season.
func (h *TopHandler) Handle(ctx context.Context, req TopRequest) (*Response, error) {
	result, err := h.leaderboard.Handle(ctx, query.GetLeaderboardQuery{
		SeasonID: strings.TrimSpace(req.Args),
	})
	if err != nil {
		return &Response{Text: errorText(err)}, nil
	}

	return &Response{
		Text:     h.boards.Summary(result),
		Keyboard: h.keyboards.LeaderboardKeyboard("summary"),
	}, nil
}

// HandleView switches the leaderboard message to another view. Category
// buttons always show the current season.
func (h *TopHandler) HandleView(ctx context.Context, view string) (*Response, error) {
	result, err := h.leaderboard.Handle(ctx, query.GetLeaderboardQuery{})
	if err != nil {
		return &Response{Text: errorText(err), Edit: true}, nil
	}

	text := h.boards.Summary(result)
	if view != "summary" {
		text = h.boards.Category(result, view)
	}

	return &Response{
		Text:     text,
		Keyboard: h.keyboards.LeaderboardKeyboard(view),
		Edit:     true,
	}, nil
}
