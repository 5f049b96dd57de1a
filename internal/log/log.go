// Package log provides structured logging for the SOC command-line
// tools, adapted from eunmann-s3-inv-db's pkg/logging: a package-level
// zerolog.Logger, configurable between JSON and human-readable console
// output.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger *zerolog.Logger

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger = &l
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger. debug raises the level to Debug;
// human switches to a console writer instead of JSON lines.
func Init(debug, human bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var w zerolog.LevelWriter
	if human {
		w = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}}
	} else {
		w = zerolog.LevelWriterAdapter{Writer: os.Stderr}
	}

	l := zerolog.New(w).With().Timestamp().Logger()
	logger = &l
}

// L returns the current global logger.
func L() *zerolog.Logger { return logger }
