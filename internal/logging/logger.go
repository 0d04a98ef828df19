package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/plainvanilla/portal/internal/config"
)

// NewLogger creates a structured zerolog.Logger for the given component
// at the configured level.
func NewLogger(cfg *config.Config, component string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", component).
		Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
