package handler

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// HELP HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// HelpHandler handles the /help command.
type HelpHandler struct{}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// Handle shows the command reference.
func (h *HelpHandler) Handle(ctx context.Context) (*Response, error) {
	text := "⚽ <b>Кикерная лига — команды</b>\n\n" +
		"/start — регистрация в лиге\n" +
		"/game — записать матч 2 на 2\n" +
		"/top — лидерборд текущего сезона\n" +
		"/stats [@ник] — карточка игрока\n" +
		"/season [ГГГГ-ММ] — итоги прошедшего сезона\n" +
		"/help — эта справка\n\n" +
		"Сезон длится календарный месяц. Очки сезона: 3/2/1 за " +
		"первые три места в каждой из пяти категорий."

	return &Response{Text: text}, nil
}
