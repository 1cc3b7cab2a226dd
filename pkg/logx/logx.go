package logx

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// ParseLevel converts a string to a Level. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLevel sets the minimum level of the package logger
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level.zerolog())
}

// SetOutput replaces the sink. jsonOutput=false writes human readable lines.
func SetOutput(w io.Writer, jsonOutput bool) {
	mu.Lock()
	defer mu.Unlock()
	lvl := logger.GetLevel()
	logger = newLogger(w, jsonOutput).Level(lvl)
}

// Configure applies level and format in one call, as read from the environment
func Configure(level, format string) {
	SetOutput(os.Stderr, strings.EqualFold(format, "json"))
	SetLevel(ParseLevel(level))
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// With returns a child logger carrying the given fields
func With(fields map[string]any) *Entry {
	l := current().With().Fields(fields).Logger()
	return &Entry{l: l}
}

// Entry is a logger bound to a set of fields
type Entry struct {
	l zerolog.Logger
}

func (e *Entry) Info(msg string)                  { e.l.Info().Msg(msg) }
func (e *Entry) Infof(format string, args ...any)  { e.l.Info().Msgf(format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.l.Warn().Msgf(format, args...) }
func (e *Entry) Errorf(format string, args ...any) { e.l.Error().Msgf(format, args...) }
func (e *Entry) Debugf(format string, args ...any) { e.l.Debug().Msgf(format, args...) }

func Debug(msg string)                  { current().Debug().Msg(msg) }
func Debugf(format string, args ...any) { current().Debug().Msgf(format, args...) }
func Info(msg string)                   { current().Info().Msg(msg) }
func Infof(format string, args ...any)  { current().Info().Msgf(format, args...) }
func Warn(msg string)                   { current().Warn().Msg(msg) }
func Warnf(format string, args ...any)  { current().Warn().Msgf(format, args...) }
func Error(msg string)                  { current().Error().Msg(msg) }
func Errorf(format string, args ...any) { current().Error().Msgf(format, args...) }

// Fatalf logs and exits the process
func Fatalf(format string, args ...any) {
	current().Fatal().Msgf(format, args...)
}
