// pkg/logging/logging.go
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/chmenegatti/dsprovision/pkg/config"
)

// New builds a logger for cfg writing to w. Format "json" emits one JSON
// object per line; anything else uses the human-readable console writer.
// An unparsable level falls back to info.
func New(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
