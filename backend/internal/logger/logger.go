package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/config"

	"github.com/rs/zerolog"
)

// Global logger instance. Starts disabled so packages that log before Init
// (tests, library callers) stay quiet.
var log = zerolog.Nop()

// Init initializes the global logger writing to stdout.
func Init(cfg config.LoggerConfig) {
	InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter initializes the global logger writing to w. The MCP stdio
// server passes os.Stderr here because stdout carries the protocol stream.
func InitWithWriter(cfg config.LoggerConfig, w io.Writer) {
	output := w
	if cfg.Environment != "production" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	log = zerolog.New(output).
		Level(parseLogLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "foundira").
		Logger()
}

// parseLogLevel maps a config level string to a zerolog level, falling back to info.
func parseLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel || parsed == zerolog.Disabled {
		return zerolog.InfoLevel
	}
	return parsed
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &log
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs and exits the process after the event is sent.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
