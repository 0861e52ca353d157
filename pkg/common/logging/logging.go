// Package logging builds the zerolog loggers used by cycleflow binaries.
//
// Library packages never log to a global logger; they accept a
// zerolog.Logger and default to zerolog.Nop().
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

var fieldNamesOnce sync.Once

// Config selects the log level and output format.
type Config struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// New returns a logger writing to stderr.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter returns a logger writing to w. Console mode renders
// human-readable lines; otherwise each event is one JSON object.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	fieldNamesOnce.Do(func() {
		zerolog.ErrorFieldName = "err"
	})

	out := w
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level, zerolog.InfoLevel)).With().Timestamp().Logger()
}

// ParseLevel maps a case-insensitive level name to a zerolog level,
// falling back to def for unknown names.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "DISABLED", "OFF":
		return zerolog.Disabled
	default:
		return def
	}
}
