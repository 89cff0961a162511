package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/external/telegram"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/handler"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// Dispatches updates to command and callback handlers. Handlers are plain
// functions over routing contexts; the router owns the last mile of turning
// a handler.Response into a Telegram API call.
// ══════════════════════════════════════════════════════════════════════════════

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables logging of routing decisions.
	Debug bool
}

// CommandContext carries one command invocation through routing.
type CommandContext struct {
	TelegramID int64
	ChatID     int64
	MessageID  int64

	// Args is the text after the command.
	Args string

	// Message is the original Telegram message.
	Message *telegram.Message
}

// CallbackContext carries one inline button press through routing.
type CallbackContext struct {
	TelegramID int64
	ChatID     int64
	MessageID  int64
	QueryID    string

	// Data is the callback data string.
	Data string
}

// TextContext carries one plain text message through routing.
type TextContext struct {
	TelegramID int64
	ChatID     int64
	MessageID  int64
	Text       string
}

// CommandFunc handles one command.
type CommandFunc func(ctx context.Context, cmdCtx CommandContext) error

// CallbackFunc handles one callback press.
type CallbackFunc func(ctx context.Context, cbCtx CallbackContext) error

// TextFunc handles one plain text message. It reports whether the text was
// consumed; unconsumed text is silently ignored.
type TextFunc func(ctx context.Context, txtCtx TextContext) (bool, error)

// Router routes Telegram updates to registered handlers.
type Router struct {
	config RouterConfig
	logger *slog.Logger
	client *telegram.Client

	mu               sync.RWMutex
	commands         map[string]CommandFunc
	callbackPrefixes map[string]CallbackFunc
	textHandlers     []TextFunc
}

// NewRouter creates a new router sending through the given client.
func NewRouter(config RouterConfig, client *telegram.Client) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Router{
		config:           config,
		logger:           config.Logger,
		client:           client,
		commands:         make(map[string]CommandFunc),
		callbackPrefixes: make(map[string]CallbackFunc),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// REGISTRATION
// ─────────────────────────────────────────────────────────────────────────────

// RegisterCommand registers a handler for a command (without the leading "/").
func (r *Router) RegisterCommand(command string, fn CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[command] = fn

	if r.config.Debug {
		r.logger.Debug("registered command handler", "command", command)
	}
}

// RegisterCallbackPrefix registers a handler for callback data starting with
// the prefix. The prefix includes the trailing delimiter (e.g. "game:").
func (r *Router) RegisterCallbackPrefix(prefix string, fn CallbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbackPrefixes[prefix] = fn

	if r.config.Debug {
		r.logger.Debug("registered callback prefix handler", "prefix", prefix)
	}
}

// RegisterTextHandler appends a plain-text handler. Handlers are tried in
// registration order until one consumes the message.
func (r *Router) RegisterTextHandler(fn TextFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textHandlers = append(r.textHandlers, fn)
}

// ─────────────────────────────────────────────────────────────────────────────
// ROUTING
// ─────────────────────────────────────────────────────────────────────────────

// HandleCommand routes a command to its handler.
func (r *Router) HandleCommand(ctx context.Context, command string, cmdCtx CommandContext) error {
	r.mu.RLock()
	fn, ok := r.commands[command]
	r.mu.RUnlock()

	if !ok {
		if r.config.Debug {
			r.logger.Debug("no handler for command", "command", command)
		}
		return r.handleUnknownCommand(ctx, cmdCtx)
	}
	return fn(ctx, cmdCtx)
}

// HandleCallback routes a callback to the longest matching prefix handler.
func (r *Router) HandleCallback(ctx context.Context, cbCtx CallbackContext) error {
	r.mu.RLock()
	var matched CallbackFunc
	var matchedPrefix string
	for prefix, fn := range r.callbackPrefixes {
		if strings.HasPrefix(cbCtx.Data, prefix) && len(prefix) > len(matchedPrefix) {
			matched = fn
			matchedPrefix = prefix
		}
	}
	r.mu.RUnlock()

	if matched == nil {
		r.logger.Warn("unknown callback", "data", cbCtx.Data)
		return nil
	}
	return matched(ctx, cbCtx)
}

// HandleText routes a plain text message through the text handlers.
func (r *Router) HandleText(ctx context.Context, txtCtx TextContext) error {
	r.mu.RLock()
	handlers := r.textHandlers
	r.mu.RUnlock()

	for _, fn := range handlers {
		consumed, err := fn(ctx, txtCtx)
		if err != nil {
			return err
		}
		if consumed {
			return nil
		}
	}
	return nil
}

// handleUnknownCommand answers commands without a registered handler.
func (r *Router) handleUnknownCommand(ctx context.Context, cmdCtx CommandContext) error {
	text := "❓ <b>Неизвестная команда</b>\n\n" +
		"Доступные команды:\n" +
		"• /game — записать матч\n" +
		"• /top — лидерборд сезона\n" +
		"• /stats — карточка игрока\n" +
		"• /season — итоги сезона\n" +
		"• /help — справка"

	_, err := r.client.SendHTML(ctx, cmdCtx.ChatID, text)
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// DELIVERY
// ─────────────────────────────────────────────────────────────────────────────

// Deliver sends or edits a message according to the handler response.
func (r *Router) Deliver(ctx context.Context, chatID, messageID int64, resp *handler.Response) error {
	if resp == nil {
		return nil
	}

	keyboard := convertKeyboard(resp.Keyboard)

	if resp.Edit && messageID != 0 {
		_, err := r.client.EditMessageText(ctx, chatID, messageID, resp.Text, keyboard)
		return err
	}

	_, err := r.client.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:      chatID,
		Text:        resp.Text,
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	return err
}

// convertKeyboard converts a presenter keyboard to the Telegram wire format.
func convertKeyboard(kb *presenter.InlineKeyboard) *telegram.InlineKeyboardMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: make([][]telegram.InlineKeyboardButton, len(kb.Rows)),
	}
	for i, row := range kb.Rows {
		markup.InlineKeyboard[i] = make([]telegram.InlineKeyboardButton, len(row))
		for j, btn := range row {
			markup.InlineKeyboard[i][j] = telegram.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.CallbackData,
				URL:          btn.URL,
			}
		}
	}
	return markup
}

// RegisteredCommands returns the registered command names.
func (r *Router) RegisteredCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.commands))
	for cmd := range r.commands {
		commands = append(commands, cmd)
	}
	return commands
}
