// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kicker-hub/kicker-league-bot/internal/domain/player"
	"github.com/kicker-hub/kicker-league-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER PLAYER COMMAND
// Creates a league player from a Telegram identity. Registration is the only
// entry point into the league: matches can only reference registered players.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterPlayerCommand contains the data to register a player.
type RegisterPlayerCommand struct {
	// TelegramID identifies the user for notifications (0 for manual entry).
	TelegramID int64

	// Username is the unique handle.
	Username string

	// Alias optionally overrides the handle for presentation.
	Alias string
}

// Validate validates the command.
func (c RegisterPlayerCommand) Validate() error {
	if c.Username == "" {
		return errors.New("register_player: username is required")
	}
	return nil
}

// RegisterPlayerResult contains the result of a registration.
type RegisterPlayerResult struct {
	PlayerID    string
	Username    string
	DisplayName string
	CurrentElo  int
	CreatedAt   time.Time
}

// RegisterPlayerHandler handles the RegisterPlayerCommand.
type RegisterPlayerHandler struct {
	players player.Repository
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegisterPlayerHandler creates the handler.
func NewRegisterPlayerHandler(players player.Repository, logger *slog.Logger) *RegisterPlayerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterPlayerHandler{
		players: players,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle registers a new player with the initial rating.
func (h *RegisterPlayerHandler) Handle(ctx context.Context, cmd RegisterPlayerCommand) (*RegisterPlayerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("player", "Register", shared.ErrInvalidInput, "invalid command", err)
	}

	username, err := player.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}

	if cmd.TelegramID != 0 {
		if _, err := h.players.GetByTelegramID(ctx, player.TelegramID(cmd.TelegramID)); err == nil {
			return nil, shared.ErrPlayerAlreadyExists
		} else if !shared.IsNotFound(err) {
			return nil, err
		}
	}

	p := player.NewPlayer(uuid.New().String(), player.TelegramID(cmd.TelegramID), username, h.now())
	p.Alias = cmd.Alias

	if err := h.players.Create(ctx, p); err != nil {
		return nil, err
	}

	h.logger.Info("player registered",
		"player_id", p.ID,
		"username", p.Username.String(),
		"telegram_id", cmd.TelegramID,
	)

	return &RegisterPlayerResult{
		PlayerID:    p.ID,
		Username:    p.Username.String(),
		DisplayName: p.DisplayName(),
		CurrentElo:  p.CurrentElo.Int(),
		CreatedAt:   p.CreatedAt,
	}, nil
}
