package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docsqa/config"
)

// New builds a logger writing to w. Format "json" emits one JSON object per
// line; anything else uses the human-readable console writer.
func New(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
