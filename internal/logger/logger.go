package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger.
func Init(production bool) {
	if production {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		// Human-readable, colorized output in development
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Include the caller's file and line number
	log.Logger = log.With().Caller().Logger()
}
