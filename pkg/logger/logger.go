// Package logger configures structured logging for the kicker league
// services and provides typed attribute constructors for the fields the
// league logs everywhere.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Format is the log output format.
type Format string

const (
	// FormatJSON is machine-readable output for production.
	FormatJSON Format = "json"

	// FormatText is human-readable output for development.
	FormatText Format = "text"
)

// Options configures the logger.
type Options struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// Format selects JSON or text output.
	Format Format

	// AddSource includes the caller file:line in each record.
	AddSource bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: FormatJSON,
	}
}

// ParseLevel parses a level string, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger and installs it as the slog default.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if opts.Format == FormatText {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

// ─────────────────────────────────────────────────────────────────────────────
// LEAGUE ATTRIBUTES
// Typed constructors so field names stay consistent across services.
// ─────────────────────────────────────────────────────────────────────────────

// PlayerID tags a record with a player ID.
func PlayerID(id string) slog.Attr { return slog.String("player_id", id) }

// MatchID tags a record with a match ID.
func MatchID(id string) slog.Attr { return slog.String("match_id", id) }

// SeasonID tags a record with a season ID.
func SeasonID(id string) slog.Attr { return slog.String("season_id", id) }

// TelegramID tags a record with a Telegram user ID.
func TelegramID(id int64) slog.Attr { return slog.Int64("telegram_id", id) }

// Command tags a record with a bot command name.
func Command(name string) slog.Attr { return slog.String("command", name) }

// Component tags a record with the emitting component.
func Component(name string) slog.Attr { return slog.String("component", name) }

// EloChange tags a record with a rating delta.
func EloChange(delta int) slog.Attr { return slog.Int("elo_change", delta) }

// Err tags a record with an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Latency tags a record with an operation duration.
func Latency(d time.Duration) slog.Attr { return slog.Duration("latency", d) }
