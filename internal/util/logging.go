package util

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// SetCliLoggerDefaults sends console logs to stderr so that stdout only
// carries command output.
func SetCliLoggerDefaults() {
	SetCliLoggerOutput(os.Stderr)
}

func SetCliLoggerOutput(w io.Writer) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z"
	log.Logger = log.Logger.Output(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    w != os.Stderr && w != os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Logger()
}

func SetCliLogLevel(c *cli.Command) {
	zerolog.SetGlobalLevel(LogLevel(c.Bool("verbose"), c.Bool("very-verbose")))
}

// LogLevel maps the verbosity flags to a log level
func LogLevel(verbose, veryVerbose bool) zerolog.Level {
	switch {
	case veryVerbose:
		return zerolog.TraceLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
