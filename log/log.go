// Package log holds the process wide logger. It wraps zerolog so that every
// package logs through the same configured root.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging type used across hwrt.
type Logger = zerolog.Logger

// Options configures the root logger.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// FromEnv reads HWRT_LOG_LEVEL and HWRT_LOG_FORMAT.
func FromEnv() Options {
	opt := Options{Level: "warn", Format: "console"}
	if v := os.Getenv("HWRT_LOG_LEVEL"); v != "" {
		opt.Level = v
	}
	if v := os.Getenv("HWRT_LOG_FORMAT"); v != "" {
		opt.Format = v
	}
	return opt
}

var (
	root     atomic.Pointer[Logger]
	initOnce sync.Once
)

// Init builds the root logger. It may be called again to reconfigure.
func Init(opt Options) {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.Writer != nil}
	}
	l := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
	root.Store(&l)
}

// Get returns the root logger, configuring it from the environment on first use.
func Get() *Logger {
	initOnce.Do(func() {
		if root.Load() == nil {
			Init(FromEnv())
		}
	})
	return root.Load()
}

// Named returns a child logger tagged with a component field.
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

func Trace() *zerolog.Event   { return Get().Trace() }
func Info() *zerolog.Event    { return Get().Info() }
func Warning() *zerolog.Event { return Get().Warn() }
func Error() *zerolog.Event   { return Get().Error() }

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
