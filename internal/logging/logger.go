package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Interface describes the minimal logging interface the replay services rely on.
type Interface interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	With(key string, value interface{}) Interface
}

var (
	globalLogger Interface
	once         sync.Once
)

// Logger returns the process-wide zerolog-backed logger.
// LOG_LEVEL selects the level (default info), LOG_FORMAT=console switches to human-readable output.
func Logger() Interface {
	once.Do(func() {
		globalLogger = New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	})
	return globalLogger
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string) Interface {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	base := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &zerologAdapter{log: base}
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (l *zerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *zerologAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologAdapter) With(key string, value interface{}) Interface {
	return &zerologAdapter{log: l.log.With().Interface(key, value).Logger()}
}
