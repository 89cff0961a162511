// Package presenter formats league data for Telegram display.
// Presenters convert application DTOs into HTML messages and inline
// keyboards, keeping the handlers free of formatting noise.
package presenter

// ══════════════════════════════════════════════════════════════════════════════
// INLINE KEYBOARD TYPES
// Library-agnostic keyboard representation; the bot converts these to the
// Telegram wire format before sending.
// ══════════════════════════════════════════════════════════════════════════════

// InlineKeyboard represents an inline keyboard.
type InlineKeyboard struct {
	Rows [][]InlineButton
}

// InlineButton represents a single inline button.
type InlineButton struct {
	// Text is the button text.
	Text string

	// CallbackData is the callback data (for callback buttons).
	CallbackData string

	// URL is the URL to open (for URL buttons).
	URL string
}

// NewInlineKeyboard creates a new empty inline keyboard.
func NewInlineKeyboard() *InlineKeyboard {
	return &InlineKeyboard{
		Rows: make([][]InlineButton, 0),
	}
}

// AddRow adds a row of buttons.
func (k *InlineKeyboard) AddRow(buttons ...InlineButton) *InlineKeyboard {
	k.Rows = append(k.Rows, buttons)
	return k
}

// CallbackButton creates a callback button.
func CallbackButton(text, callbackData string) InlineButton {
	return InlineButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// KEYBOARD BUILDER
// ══════════════════════════════════════════════════════════════════════════════

// KeyboardBuilder builds inline keyboards for the bot handlers.
type KeyboardBuilder struct{}

// NewKeyboardBuilder creates a new KeyboardBuilder.
func NewKeyboardBuilder() *KeyboardBuilder {
	return &KeyboardBuilder{}
}

// ─────────────────────────────────────────────────────────────────────────────
// MAIN MENU
// ─────────────────────────────────────────────────────────────────────────────

// MainMenuKeyboard creates the keyboard shown after /start.
func (b *KeyboardBuilder) MainMenuKeyboard() *InlineKeyboard {
	return NewInlineKeyboard().
		AddRow(
			CallbackButton("⚽ Записать матч", "cmd:game"),
			CallbackButton("🏆 Лидерборд", "cmd:top"),
		).
		AddRow(
			CallbackButton("📊 Моя статистика", "cmd:stats"),
			CallbackButton("🏅 Итоги сезона", "cmd:season"),
		)
}

// ─────────────────────────────────────────────────────────────────────────────
// MATCH ENTRY DIALOG
// ─────────────────────────────────────────────────────────────────────────────

// DryWinKeyboard asks whether the losers scored at all.
func (b *KeyboardBuilder) DryWinKeyboard() *InlineKeyboard {
	return NewInlineKeyboard().
		AddRow(
			CallbackButton("Да 🧹", "game:dry:yes"),
			CallbackButton("Нет", "game:dry:no"),
		).
		AddRow(
			CallbackButton("Не помню 🤷", "game:dry:skip"),
		)
}

// ConfirmMatchKeyboard asks for the final confirmation of a match draft.
func (b *KeyboardBuilder) ConfirmMatchKeyboard() *InlineKeyboard {
	return NewInlineKeyboard().
		AddRow(
			CallbackButton("✅ Записать", "game:confirm"),
			CallbackButton("❌ Отмена", "game:cancel"),
		)
}

// ─────────────────────────────────────────────────────────────────────────────
// LEADERBOARD
// ─────────────────────────────────────────────────────────────────────────────

// LeaderboardKeyboard creates the category switcher under /top.
// The active view gets no button so the keyboard doubles as a position marker.
func (b *KeyboardBuilder) LeaderboardKeyboard(active string) *InlineKeyboard {
	type view struct {
		label string
		key   string
	}
	views := []view{
		{"🏆 Итог", "summary"},
		{"📈 Прирост Elo", "elo_gains"},
		{"🎮 Игры", "matches_played"},
		{"🧹 Сухие", "dry_wins"},
		{"✅ Победы", "total_wins"},
		{"🔥 Серия", "longest_streak"},
	}

	kb := NewInlineKeyboard()
	row := make([]InlineButton, 0, 2)
	for _, v := range views {
		if v.key == active {
			continue
		}
		row = append(row, CallbackButton(v.label, "top:"+v.key))
		if len(row) == 2 {
			kb.AddRow(row...)
			row = make([]InlineButton, 0, 2)
		}
	}
	if len(row) > 0 {
		kb.AddRow(row...)
	}
	return kb
}
