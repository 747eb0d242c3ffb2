package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application, backed by
// zerolog with console output.
type Logger struct {
	z zerolog.Logger
}

// NewLogger creates a Logger writing to stdout. The level is taken from
// LOG_LEVEL (debug unless set).
func NewLogger() *Logger {
	level := zerolog.DebugLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	z := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &Logger{z: z}
}

// WithField returns a child logger with a fixed key/value attached.
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{z: l.z.With().Str(key, value).Logger()}
}

func (l *Logger) Info(format string, args ...any) {
	l.z.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.z.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.z.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.z.Debug().Msgf(format, args...)
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
