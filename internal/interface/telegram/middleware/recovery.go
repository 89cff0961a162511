// Package middleware contains Telegram bot middlewares for update processing.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY MIDDLEWARE
// Catches panics in handlers so one bad update cannot take the bot down.
// Users get a short apology, the log gets the stack trace.
// ══════════════════════════════════════════════════════════════════════════════

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	// UserErrorMessage is sent to the user when a panic is recovered.
	UserErrorMessage string

	// Logger for panic reports.
	Logger *slog.Logger
}

// DefaultRecoveryConfig returns sensible defaults.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		UserErrorMessage: "😔 Что-то пошло не так.\n" +
			"Попробуй ещё раз через пару минут.",
		Logger: slog.Default(),
	}
}

// PanicInfo contains information about a recovered panic.
type PanicInfo struct {
	Error      error
	StackTrace string
	TelegramID int64
	Operation  string
	Timestamp  time.Time
}

// RecoveryResult is the outcome of running a handler through the middleware.
type RecoveryResult struct {
	// Recovered indicates a panic was caught.
	Recovered bool

	// PanicInfo contains panic details when Recovered is true.
	PanicInfo *PanicInfo

	// UserMessage is the message to show to the user when Recovered is true.
	UserMessage string

	// Err is the handler's ordinary error, if any.
	Err error
}

// RecoveryMiddleware recovers from handler panics.
type RecoveryMiddleware struct {
	config RecoveryConfig
}

// NewRecoveryMiddleware creates a new recovery middleware.
func NewRecoveryMiddleware(config RecoveryConfig) *RecoveryMiddleware {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &RecoveryMiddleware{config: config}
}

// RecoverWithHandler executes a handler and converts any panic into a
// RecoveryResult instead of crashing the polling loop.
func (m *RecoveryMiddleware) RecoverWithHandler(
	ctx context.Context,
	telegramID int64,
	operation string,
	handler func() error,
) *RecoveryResult {
	var result *RecoveryResult
	var handlerErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				info := &PanicInfo{
					Error:      toError(r),
					StackTrace: string(debug.Stack()),
					TelegramID: telegramID,
					Operation:  operation,
					Timestamp:  time.Now(),
				}
				m.config.Logger.Error("panic recovered",
					"operation", operation,
					"telegram_id", telegramID,
					"error", info.Error,
					"stack", info.StackTrace,
				)
				result = &RecoveryResult{
					Recovered:   true,
					PanicInfo:   info,
					UserMessage: m.config.UserErrorMessage,
				}
			}
		}()
		handlerErr = handler()
	}()

	if result != nil {
		return result
	}
	return &RecoveryResult{Err: handlerErr}
}

// toError converts a panic value to an error.
func toError(panicValue interface{}) error {
	switch v := panicValue.(type) {
	case error:
		return v
	case string:
		return fmt.Errorf("%s", v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}
