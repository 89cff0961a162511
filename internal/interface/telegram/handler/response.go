// Package handler contains Telegram command handlers for the kicker league.
// Handlers take parsed requests, call the application layer and return a
// Response; the bot decides how to deliver it.
package handler

import (
	"errors"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// Response is a message to send back to the chat.
type Response struct {
	// Text is the HTML-formatted message text.
	Text string

	// Keyboard is an optional inline keyboard.
	Keyboard *presenter.InlineKeyboard

	// Edit asks the bot to edit the originating message instead of
	// sending a new one. Only meaningful for callback-driven responses.
	Edit bool
}

// errorText maps domain errors to user-facing Russian messages. Anything
// unmapped becomes a generic apology; the real error stays in the logs.
func errorText(err error) string {
	switch {
	case errors.Is(err, shared.ErrPlayerNotFound):
		return "🤷 Игрок не найден. Каждый участник матча должен сначала нажать /start."
	case errors.Is(err, shared.ErrPlayerAlreadyExists):
		return "Этот ник уже занят. Попробуй другой: <code>/start другой_ник</code>"
	case errors.Is(err, shared.ErrInvalidUsername):
		return "Ник должен быть от 2 до 32 символов и без пробелов."
	case errors.Is(err, shared.ErrDuplicatePlayers):
		return "В матче должны участвовать четыре разных игрока."
	case errors.Is(err, shared.ErrInvalidTeamSize):
		return "В каждой команде ровно два игрока."
	case errors.Is(err, shared.ErrInvalidSeasonID):
		return "Сезон указывается как <code>ГГГГ-ММ</code>, например <code>2025-07</code>."
	case errors.Is(err, shared.ErrSeasonNotFound):
		return "В этом сезоне ещё не было матчей."
	case errors.Is(err, shared.ErrTransitionInFlight):
		return "⏳ Переход сезона уже выполняется."
	default:
		return "😔 Произошла ошибка. Попробуй позже."
	}
}
