package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// START HANDLER
// Handles /start - registers the player in the league. The Telegram username
// becomes the league handle; users without one pass a handle as an argument.
// ══════════════════════════════════════════════════════════════════════════════

// StartHandler handles the /start command.
type StartHandler struct {
	register  *command.RegisterPlayerHandler
	players   player.Repository
	keyboards *presenter.KeyboardBuilder
}

// NewStartHandler creates a new StartHandler.
func NewStartHandler(
	register *command.RegisterPlayerHandler,
	players player.Repository,
	keyboards *presenter.KeyboardBuilder,
) *StartHandler {
	return &StartHandler{
		register:  register,
		players:   players,
		keyboards: keyboards,
	}
}

// StartRequest contains the parsed /start command data.
type StartRequest struct {
	TelegramID       int64
	TelegramUsername string
	FirstName        string

	// Args optionally carries a handle override: "/start my_nick".
	Args string
}

// Handle registers the player or welcomes them back.
func (h *StartHandler) Handle(ctx context.Context, req StartRequest) (*Response, error) {
	if p, err := h.players.GetByTelegramID(ctx, player.TelegramID(req.TelegramID)); err == nil {
		return &Response{
			Text: fmt.Sprintf("С возвращением, <b>%s</b>! ⚽\nТвой рейтинг: <b>%d</b>",
				p.DisplayName(), p.CurrentElo.Int()),
			Keyboard: h.keyboards.MainMenuKeyboard(),
		}, nil
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	username := strings.TrimPrefix(strings.TrimSpace(req.Args), "@")
	if username == "" {
		username = req.TelegramUsername
	}
	if username == "" {
		return &Response{
			Text: "Привет! Чтобы играть в лиге, нужен ник.\n" +
				"У тебя не настроен username в Telegram, поэтому укажи ник командой:\n" +
				"<code>/start мой_ник</code>",
		}, nil
	}

	result, err := h.register.Handle(ctx, command.RegisterPlayerCommand{
		TelegramID: req.TelegramID,
		Username:   username,
		Alias:      strings.TrimSpace(req.FirstName),
	})
	if err != nil {
		return &Response{Text: errorText(err)}, nil
	}

	return &Response{
		Text: fmt.Sprintf("Добро пожаловать в лигу, <b>%s</b>! 🎉\n\n"+
			"Твой стартовый рейтинг: <b>%d</b>\n"+
			"Записывай матчи через /game, смотри рейтинг через /top.",
			result.DisplayName, result.CurrentElo),
		Keyboard: h.keyboards.MainMenuKeyboard(),
	}, nil
}
