package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages can accept a logger without
// importing zerolog directly.
type Logger = zerolog.Logger

// NewLogger builds the TaskEase logger for appEnv. An explicit level such as
// "warn" overrides the environment default of debug in development and info
// elsewhere. Development writes to the console; other environments emit JSON
// tagged with service and env.
func NewLogger(appEnv, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if appEnv == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return newLogger(out, appEnv, level)
}

func newLogger(out io.Writer, appEnv, level string) zerolog.Logger {
	return zerolog.New(out).
		Level(logLevel(appEnv, level)).
		With().
		Timestamp().
		Str("service", "taskease").
		Str("env", appEnv).
		Logger()
}

func logLevel(appEnv, level string) zerolog.Level {
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil && parsed != zerolog.NoLevel {
			return parsed
		}
	}
	if appEnv == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
