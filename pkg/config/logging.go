package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the process logger, JSON lines for the JSON format and the console writer otherwise
func (l LogConfig) Logger(out io.Writer) zerolog.Logger {
	if l.Format != "JSON" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if l.Debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
