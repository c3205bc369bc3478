// Package logger owns the process-wide zerolog logger. Output goes to stderr
// unless configured otherwise, keeping stdout free for the query console.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var current zerolog.Logger

// LogLevel names a minimum severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

var levels = map[LogLevel]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
	FatalLevel: zerolog.FatalLevel,
}

// Config selects level, output format and destination
type Config struct {
	Level LogLevel
	// Pretty switches to zerolog's human readable console writer
	Pretty bool
	// Output defaults to os.Stderr
	Output io.Writer
}

// Configure replaces the process logger. Unknown levels fall back to warn.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, ok := levels[cfg.Level]
	if !ok {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	current = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = current
}

// Get returns the configured logger
func Get() zerolog.Logger {
	return current
}

// Debug starts a debug event
func Debug() *zerolog.Event {
	return current.Debug()
}

// Info starts an info event
func Info() *zerolog.Event {
	return current.Info()
}

// Error starts an error event
func Error() *zerolog.Event {
	return current.Error()
}

// WithField returns a child logger carrying key
func WithField(key string, value interface{}) zerolog.Logger {
	return current.With().Interface(key, value).Logger()
}

func init() {
	Configure(Config{Level: WarnLevel, Pretty: true})
}
