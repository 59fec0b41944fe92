// Package applog provides the single zerolog logger used across the
// engine. Components hold a zerolog.Logger built by New (or use the
// package-level default) rather than calling fmt.Println directly, so log level and
// output format are controlled in one place.
package applog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once    sync.Once
	logger  zerolog.Logger
	initOut io.Writer = os.Stderr
)

// New builds a component-scoped logger tagged with "component": name.
func New(component string) zerolog.Logger {
	return Default().With().Str("component", component).Logger()
}

// Default returns the process-wide base logger, built lazily on first use.
func Default() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		logger = zerolog.New(initOut).With().Timestamp().Logger()
	})
	return logger
}

// SetOutput redirects the default logger's output. Intended for tests;
// must be called before the
// first call to Default/New in a given process, since Default builds
// its logger lazily exactly once.
func SetOutput(w io.Writer) {
	initOut = w
}

// SetLevel adjusts the process-wide minimum log level.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}
