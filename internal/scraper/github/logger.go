package github

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// leveledLogger forwards retryablehttp logs to zerolog. Request and retry
// chatter goes to trace level, errors to warn.
type leveledLogger struct {
	logger zerolog.Logger
}

func newLeveledLogger() retryablehttp.LeveledLogger {
	return &leveledLogger{logger: log.Logger.With().Str("component", "github").Logger()}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}
