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
// GAME HANDLER
// Drives the /game match-entry dialog: winning pair, losing pair, dry-win
// question, confirmation. Nothing is written to the ledger until the final
// confirmation button.
// ══════════════════════════════════════════════════════════════════════════════

// GameHandler handles the /game dialog.
type GameHandler struct {
	record    *command.RecordMatchHandler
	players   player.Repository
	sessions  *SessionStore
	matches   *presenter.MatchPresenter
	keyboards *presenter.KeyboardBuilder
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	record *command.RecordMatchHandler,
	players player.Repository,
	sessions *SessionStore,
	matches *presenter.MatchPresenter,
	keyboards *presenter.KeyboardBuilder,
) *GameHandler {
	return &GameHandler{
		record:    record,
		players:   players,
		sessions:  sessions,
		matches:   matches,
		keyboards: keyboards,
	}
}

// Begin starts a fresh dialog. A /game during an unfinished dialog restarts it.
func (h *GameHandler) Begin(ctx context.Context, telegramID int64) (*Response, error) {
	if _, err := h.players.GetByTelegramID(ctx, player.TelegramID(telegramID)); err != nil {
		if shared.IsNotFound(err) {
			return &Response{Text: "Сначала зарегистрируйся: /start"}, nil
		}
		return nil, err
	}

	h.sessions.Begin(telegramID)
	return &Response{Text: h.matches.AskWinners()}, nil
}

// HandleText consumes a text message for the active dialog. The second return
// value is false when the user has no dialog and the text is not ours.
func (h *GameHandler) HandleText(ctx context.Context, telegramID int64, text string) (*Response, bool, error) {
	sess, ok := h.sessions.Get(telegramID)
	if !ok {
		return nil, false, nil
	}

	switch sess.Draft.Step {
	case StepWinners:
		ids, names, errResp := h.resolvePair(ctx, text, nil)
		if errResp != nil {
			return errResp, true, nil
		}
		sess.Draft.WinnerIDs = ids
		sess.Draft.WinnerNames = names
		sess.Draft.Step = StepLosers
		h.sessions.Touch(telegramID)
		return &Response{Text: h.matches.AskLosers(names)}, true, nil

	case StepLosers:
		ids, names, errResp := h.resolvePair(ctx, text, sess.Draft.WinnerIDs[:])
		if errResp != nil {
			return errResp, true, nil
		}
		sess.Draft.LoserIDs = ids
		sess.Draft.LoserNames = names
		sess.Draft.Step = StepDryWin
		h.sessions.Touch(telegramID)
		return &Response{
			Text:     h.matches.AskDryWin(),
			Keyboard: h.keyboards.DryWinKeyboard(),
		}, true, nil

	default:
		// Waiting on a button press, not text.
		return &Response{Text: "Используй кнопки выше 🙂 Или /game, чтобы начать заново."}, true, nil
	}
}

// HandleCallback consumes a "game:" button press.
func (h *GameHandler) HandleCallback(ctx context.Context, telegramID int64, data string) (*Response, error) {
	action := strings.TrimPrefix(data, "game:")

	sess, ok := h.sessions.Get(telegramID)
	if !ok {
		return &Response{Text: "Диалог истёк. Начни заново: /game", Edit: true}, nil
	}

	switch action {
	case "dry:yes", "dry:no", "dry:skip":
		if sess.Draft.Step != StepDryWin {
			return &Response{Text: "Этот вопрос уже неактуален. /game — начать заново.", Edit: true}, nil
		}
		sess.Draft.DryWinKnown = action != "dry:skip"
		sess.Draft.IsDryWin = action == "dry:yes"
		sess.Draft.Step = StepConfirm
		h.sessions.Touch(telegramID)
		return &Response{
			Text: h.matches.Confirmation(
				sess.Draft.WinnerNames, sess.Draft.LoserNames,
				sess.Draft.DryWinKnown, sess.Draft.IsDryWin,
			),
			Keyboard: h.keyboards.ConfirmMatchKeyboard(),
			Edit:     true,
		}, nil

	case "confirm":
		if sess.Draft.Step != StepConfirm {
			return &Response{Text: "Матч ещё не заполнен до конца. /game — начать заново.", Edit: true}, nil
		}
		h.sessions.End(telegramID)

		result, err := h.record.Handle(ctx, command.RecordMatchCommand{
			WinnerIDs:   sess.Draft.WinnerIDs,
			LoserIDs:    sess.Draft.LoserIDs,
			IsDryWin:    sess.Draft.IsDryWin,
			DryWinKnown: sess.Draft.DryWinKnown,
		})
		if err != nil {
			return &Response{Text: errorText(err), Edit: true}, err
		}
		return &Response{Text: h.matches.Recorded(result), Edit: true}, nil

	case "cancel":
		h.sessions.End(telegramID)
		return &Response{Text: "Матч отменён. /game — начать заново.", Edit: true}, nil

	default:
		return &Response{Text: "Неизвестное действие. /game — начать заново.", Edit: true}, nil
	}
}

// resolvePair parses "@a @b" into player IDs and display names. A non-nil
// Response is a user-facing validation message; the dialog stays on its step.
func (h *GameHandler) resolvePair(ctx context.Context, text string, taken []string) ([2]string, [2]string, *Response) {
	var ids, names [2]string

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return ids, names, &Response{Text: "Нужно ровно два ника через пробел, например: <code>@alice @bob</code>"}
	}

	seen := make(map[string]struct{}, 4)
	for _, id := range taken {
		seen[id] = struct{}{}
	}

	for i, f := range fields {
		username, err := player.NewUsername(strings.TrimPrefix(f, "@"))
		if err != nil {
			return ids, names, &Response{Text: errorText(err)}
		}

		p, err := h.players.GetByUsername(ctx, username)
		if err != nil {
			if shared.IsNotFound(err) {
				return ids, names, &Response{Text: fmt.Sprintf(
					"Игрок <b>@%s</b> не найден. Он должен сначала нажать /start.", username)}
			}
			return ids, names, &Response{Text: errorText(err)}
		}

		if _, dup := seen[p.ID]; dup {
			return ids, names, &Response{Text: "В матче должны участвовать четыре разных игрока."}
		}
		seen[p.ID] = struct{}{}

		ids[i] = p.ID
		names[i] = p.DisplayName()
	}
	return ids, names, nil
}
