// Package telegram implements the Telegram chat interface of the kicker
// league bot: registration, the match-entry dialog, leaderboards and season
// results. It routes updates to handlers and manages the bot lifecycle.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kicker-hub/kicker-league-bot/internal/application/command"
	"github.com/kicker-hub/kicker-league-bot/internal/application/query"
	"github.com/kicker-hub/kicker-league-bot/internal/application/saga"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/infrastructure/external/telegram"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/handler"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/middleware"
	"github.com/kicker-hub/kicker-league-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// BotConfig contains configuration for the Telegram bot.
type BotConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// Debug enables debug logging.
	Debug bool

	// Logger for structured logging.
	Logger *slog.Logger

	// AdminIDs are the Telegram IDs allowed to run admin commands.
	AdminIDs []int64

	// SessionTTL is how long an abandoned /game dialog survives.
	SessionTTL time.Duration

	// MaxConcurrentUpdates limits concurrent update processing.
	MaxConcurrentUpdates int

	// GracefulShutdownTimeout bounds the wait for in-flight handlers on Stop.
	GracefulShutdownTimeout time.Duration
}

// DefaultBotConfig returns sensible defaults.
func DefaultBotConfig(token string) BotConfig {
	return BotConfig{
		Token:                   token,
		Logger:                  slog.Default(),
		SessionTTL:              handler.DefaultSessionTTL,
		MaxConcurrentUpdates:    64,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}

// BotDependencies contains the application-layer dependencies of the bot.
type BotDependencies struct {
	Players player.Repository

	RegisterPlayerCmd *command.RegisterPlayerHandler
	RecordMatchCmd    *command.RecordMatchHandler

	LeaderboardQuery   *query.GetLeaderboardHandler
	PlayerStatsQuery   *query.GetPlayerStatsHandler
	SeasonWinnersQuery *query.GetSeasonWinnersHandler

	TransitionSaga *saga.SeasonTransitionSaga
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// ══════════════════════════════════════════════════════════════════════════════

// Bot is the Telegram bot controller.
type Bot struct {
	config BotConfig
	client *telegram.Client
	router *Router
	logger *slog.Logger

	rateLimiter *middleware.RateLimiter
	recovery    *middleware.RecoveryMiddleware

	running   bool
	runningMu sync.RWMutex
	updateSem chan struct{}
	wg        sync.WaitGroup

	stats *BotStats
}

// BotStats holds runtime counters.
type BotStats struct {
	mu              sync.Mutex
	StartedAt       time.Time
	UpdatesReceived int64
	ErrorsCount     int64
	CommandsCount   map[string]int64
}

// NewBot creates a new Telegram bot with all handlers wired.
func NewBot(config BotConfig, deps BotDependencies) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram token is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxConcurrentUpdates <= 0 {
		config.MaxConcurrentUpdates = 64
	}

	clientConfig := telegram.DefaultClientConfig(config.Token)
	clientConfig.Logger = config.Logger
	clientConfig.Debug = config.Debug
	client := telegram.NewClient(clientConfig)

	keyboards := presenter.NewKeyboardBuilder()
	boards := presenter.NewLeaderboardPresenter()
	matches := presenter.NewMatchPresenter()
	cards := presenter.NewPlayerCardPresenter()
	sessions := handler.NewSessionStore(config.SessionTTL)

	startHandler := handler.NewStartHandler(deps.RegisterPlayerCmd, deps.Players, keyboards)
	gameHandler := handler.NewGameHandler(deps.RecordMatchCmd, deps.Players, sessions, matches, keyboards)
	topHandler := handler.NewTopHandler(deps.LeaderboardQuery, boards, keyboards)
	statsHandler := handler.NewStatsHandler(deps.PlayerStatsQuery, cards)
	seasonHandler := handler.NewSeasonHandler(deps.SeasonWinnersQuery, deps.TransitionSaga, boards, config.AdminIDs)
	helpHandler := handler.NewHelpHandler()

	router := NewRouter(RouterConfig{Logger: config.Logger, Debug: config.Debug}, client)

	router.RegisterCommand("start", func(ctx context.Context, c CommandContext) error {
		req := handler.StartRequest{TelegramID: c.TelegramID, Args: c.Args}
		if c.Message != nil && c.Message.From != nil {
			req.TelegramUsername = c.Message.From.Username
			req.FirstName = c.Message.From.FirstName
		}
		resp, err := startHandler.Handle(ctx, req)
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCommand("game", func(ctx context.Context, c CommandContext) error {
		resp, err := gameHandler.Begin(ctx, c.TelegramID)
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCommand("top", func(ctx context.Context, c CommandContext) error {
		resp, err := topHandler.Handle(ctx, handler.TopRequest{Args: c.Args})
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCommand("stats", func(ctx context.Context, c CommandContext) error {
		resp, err := statsHandler.Handle(ctx, handler.StatsRequest{TelegramID: c.TelegramID, Args: c.Args})
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCommand("season", func(ctx context.Context, c CommandContext) error {
		resp, err := seasonHandler.Handle(ctx, handler.SeasonRequest{TelegramID: c.TelegramID, Args: c.Args})
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCommand("help", func(ctx context.Context, c CommandContext) error {
		resp, err := helpHandler.Handle(ctx)
		return deliverWithError(ctx, router, c.ChatID, 0, resp, err)
	})

	router.RegisterCallbackPrefix("game:", func(ctx context.Context, c CallbackContext) error {
		resp, err := gameHandler.HandleCallback(ctx, c.TelegramID, c.Data)
		return deliverWithError(ctx, router, c.ChatID, c.MessageID, resp, err)
	})

	router.RegisterCallbackPrefix("top:", func(ctx context.Context, c CallbackContext) error {
		view := strings.TrimPrefix(c.Data, "top:")
		resp, err := topHandler.HandleView(ctx, view)
		return deliverWithError(ctx, router, c.ChatID, c.MessageID, resp, err)
	})

	// Main menu buttons re-dispatch as commands in a fresh message.
	router.RegisterCallbackPrefix("cmd:", func(ctx context.Context, c CallbackContext) error {
		name := strings.TrimPrefix(c.Data, "cmd:")
		return router.HandleCommand(ctx, name, CommandContext{
			TelegramID: c.TelegramID,
			ChatID:     c.ChatID,
		})
	})

	// The /game dialog consumes plain text while a session is active.
	router.RegisterTextHandler(func(ctx context.Context, t TextContext) (bool, error) {
		resp, consumed, err := gameHandler.HandleText(ctx, t.TelegramID, t.Text)
		if !consumed {
			return false, err
		}
		return true, deliverWithError(ctx, router, t.ChatID, 0, resp, err)
	})

	return &Bot{
		config:      config,
		client:      client,
		router:      router,
		logger:      config.Logger,
		rateLimiter: middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
		recovery: middleware.NewRecoveryMiddleware(middleware.RecoveryConfig{
			UserErrorMessage: middleware.DefaultRecoveryConfig().UserErrorMessage,
			Logger:           config.Logger,
		}),
		updateSem: make(chan struct{}, config.MaxConcurrentUpdates),
		stats: &BotStats{
			CommandsCount: make(map[string]int64),
		},
	}, nil
}

// deliverWithError sends the handler response even when the handler also
// returned an error; the error still propagates for logging.
func deliverWithError(ctx context.Context, router *Router, chatID, messageID int64, resp *handler.Response, err error) error {
	if resp != nil {
		if sendErr := router.Deliver(ctx, chatID, messageID, resp); sendErr != nil && err == nil {
			err = sendErr
		}
	}
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start verifies the token and begins long polling. It blocks until the
// context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("bot is already running")
	}
	b.running = true
	b.stats.StartedAt = time.Now()
	b.runningMu.Unlock()

	me, err := b.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify bot token: %w", err)
	}
	b.logger.Info("bot verified", "id", me.ID, "username", me.Username)

	return b.client.StartPolling(ctx, func(ctx context.Context, update *telegram.Update) error {
		return b.handleUpdate(ctx, update)
	})
}

// Stop waits for in-flight handlers to finish, bounded by the configured
// shutdown timeout. Polling stops when the Start context is cancelled.
func (b *Bot) Stop(ctx context.Context) error {
	b.runningMu.Lock()
	if !b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = false
	b.runningMu.Unlock()

	b.logger.Info("stopping telegram bot")

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed")
	case <-time.After(b.config.GracefulShutdownTimeout):
		b.logger.Warn("graceful shutdown timeout exceeded")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// IsRunning reports whether the bot is running.
func (b *Bot) IsRunning() bool {
	b.runningMu.RLock()
	defer b.runningMu.RUnlock()
	return b.running
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE HANDLING
// ══════════════════════════════════════════════════════════════════════════════

// handleUpdate processes a single Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update *telegram.Update) error {
	select {
	case b.updateSem <- struct{}{}:
		defer func() { <-b.updateSem }()
	case <-ctx.Done():
		return ctx.Err()
	}

	b.wg.Add(1)
	defer b.wg.Done()

	b.stats.mu.Lock()
	b.stats.UpdatesReceived++
	b.stats.mu.Unlock()

	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallbackQuery(ctx, update.CallbackQuery)
	default:
		return nil
	}

	if err != nil {
		b.stats.mu.Lock()
		b.stats.ErrorsCount++
		b.stats.mu.Unlock()
		b.logger.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
	return err
}

// handleMessage processes an incoming message.
func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) error {
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}

	telegramID := msg.From.ID
	chatID := msg.Chat.ID

	if limit := b.rateLimiter.Check(telegramID); !limit.Allowed {
		text := fmt.Sprintf("⏳ Слишком много запросов, подожди %d сек.", int(limit.RetryAfter.Seconds())+1)
		_, err := b.client.SendHTML(ctx, chatID, text)
		return err
	}

	if cmd := telegram.ExtractCommand(msg); cmd != "" {
		b.stats.mu.Lock()
		b.stats.CommandsCount[cmd]++
		b.stats.mu.Unlock()

		return b.runRecovered(ctx, telegramID, chatID, "/"+cmd, func() error {
			return b.router.HandleCommand(ctx, cmd, CommandContext{
				TelegramID: telegramID,
				ChatID:     chatID,
				MessageID:  msg.MessageID,
				Args:       telegram.ExtractCommandArgs(msg),
				Message:    msg,
			})
		})
	}

	if msg.Text == "" {
		return nil
	}

	return b.runRecovered(ctx, telegramID, chatID, "text", func() error {
		return b.router.HandleText(ctx, TextContext{
			TelegramID: telegramID,
			ChatID:     chatID,
			MessageID:  msg.MessageID,
			Text:       msg.Text,
		})
	})
}

// handleCallbackQuery processes an inline button press.
func (b *Bot) handleCallbackQuery(ctx context.Context, cq *telegram.CallbackQuery) error {
	if cq == nil || cq.From == nil {
		return nil
	}

	telegramID := cq.From.ID
	var chatID, messageID int64
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
		messageID = cq.Message.MessageID
	}

	// Answer first so the button stops spinning regardless of the outcome.
	defer func() {
		_ = b.client.AnswerCallbackQuery(ctx, cq.ID, "")
	}()

	if limit := b.rateLimiter.Check(telegramID); !limit.Allowed {
		return nil
	}

	return b.runRecovered(ctx, telegramID, chatID, "callback:"+cq.Data, func() error {
		return b.router.HandleCallback(ctx, CallbackContext{
			TelegramID: telegramID,
			ChatID:     chatID,
			MessageID:  messageID,
			QueryID:    cq.ID,
			Data:       cq.Data,
		})
	})
}

// runRecovered executes a handler under the recovery middleware and delivers
// the apology message when a panic was caught.
func (b *Bot) runRecovered(ctx context.Context, telegramID, chatID int64, operation string, fn func() error) error {
	result := b.recovery.RecoverWithHandler(ctx, telegramID, operation, fn)
	if result.Recovered {
		if chatID != 0 {
			_, _ = b.client.SendHTML(ctx, chatID, result.UserMessage)
		}
		return nil
	}
	return result.Err
}

// ══════════════════════════════════════════════════════════════════════════════
// INTROSPECTION
// ══════════════════════════════════════════════════════════════════════════════

// Stats returns a snapshot of the runtime counters.
func (b *Bot) Stats() map[string]interface{} {
	b.stats.mu.Lock()
	defer b.stats.mu.Unlock()

	commands := make(map[string]int64, len(b.stats.CommandsCount))
	for k, v := range b.stats.CommandsCount {
		commands[k] = v
	}

	return map[string]interface{}{
		"started_at":       b.stats.StartedAt,
		"uptime":           time.Since(b.stats.StartedAt).String(),
		"updates_received": b.stats.UpdatesReceived,
		"errors_count":     b.stats.ErrorsCount,
		"commands_count":   commands,
		"running":          b.IsRunning(),
	}
}

// Client returns the underlying Telegram client.
func (b *Bot) Client() *telegram.Client {
	return b.client
}
