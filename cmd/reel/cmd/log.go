package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	reelerrors "github.com/go-drift/reel/pkg/errors"
)

// logLevel is set by --log-level. Empty falls back to REEL_LOG_LEVEL, then
// the descriptor's player.logLevel.
var logLevel string

// setupLogging installs a console logger on the global zerolog logger and
// routes recovered panics from the frame loop through it.
func setupLogging(fallback string) zerolog.Logger {
	level := logLevel
	if level == "" {
		level = os.Getenv("REEL_LOG_LEVEL")
	}
	if level == "" {
		level = fallback
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	logger := log.Logger
	reelerrors.SetHandler(&reelerrors.LogHandler{Logger: &logger, Verbose: lvl <= zerolog.DebugLevel})
	if err != nil {
		logger.Warn().Str("level", level).Msg("unknown log level; using info")
	}
	return logger
}
