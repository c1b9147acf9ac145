// internal/core/log/log.go
package log

/*
 * Structured logging setup.
 *
 * Every component logs through *slog.Logger. The handler is picked from the
 * configured format:
 *   - json:   slog.JSONHandler, the default for the decision service
 *   - logfmt: slog.TextHandler
 *   - text:   charmbracelet/log, colored only when the writer is a terminal
 *
 * Request-scoped loggers travel in the context (IntoContext / FromContext).
 * The gRPC interceptor stores one per call, tagged with the method name.
 */

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Format names a log handler.
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

var (
	formats = []Format{FormatJSON, FormatLogfmt, FormatText}

	levels = map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
)

// Formats lists accepted format names, for flag help.
func Formats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// Levels lists accepted level names, for flag help.
func Levels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ParseLevel resolves a case-insensitive level name.
func ParseLevel(s string) (slog.Level, error) {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options configures NewHandler.
type Options struct {
	Level  slog.Level
	Format Format
}

// New returns a logger writing to w, with level and format given by name
// as they appear in configuration.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("log.format: %w", err)
	}
	return slog.New(NewHandler(w, Options{Level: lvl, Format: f})), nil
}

// NewHandler builds the handler for opts. Unknown formats fall back to JSON.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	switch opts.Format {
	case FormatText:
		return newTextHandler(w, opts.Level)
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmLevel(level),
		Prefix:          "displayrules",
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
	})
	// Plain text for pipes and files; NO_COLOR and CLICOLOR_FORCE apply.
	logger.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	return logger
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}

type contextKey struct{}

// IntoContext stores logger in ctx.
func IntoContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
