package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

const (
	LOG_TRACE = "trace"
	LOG_DEBUG = "debug"
	LOG_INFO  = "info"
	LOG_WARN  = "warn"
	LOG_ERROR = "error"
)

var levels = map[string]zerolog.Level{
	LOG_TRACE: zerolog.TraceLevel,
	LOG_DEBUG: zerolog.DebugLevel,
	LOG_INFO:  zerolog.InfoLevel,
	LOG_WARN:  zerolog.WarnLevel,
	LOG_ERROR: zerolog.ErrorLevel,
}

func init() {
	// Silent until a command asks for output
	SetSilentMode(true)
}

// SetSilentMode switches between discarding all output and a console writer on stderr
func SetSilentMode(silent bool) {
	var output io.Writer = io.Discard
	if !silent {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}
	SetOutput(output)
}

// SetOutput replaces the writer behind every logger handed out afterwards
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// New returns the process logger
func New() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger tagged with a component name
func With(component string) zerolog.Logger {
	l := New()
	return l.With().Str("component", component).Logger()
}

// SetLevel sets the global log level, unknown names fall back to info
func SetLevel(level string) {
	lvl, ok := levels[level]
	if !ok {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
