// Package logger configures the process-wide zerolog logger and exposes
// event helpers so call sites do not import zerolog/log directly.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultFile is where file output goes when Config.File is empty.
const DefaultFile = "linkprefs.log"

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error; anything else means info
	Format string // json, text
	Output string // stdout, stderr, file, discard
	File   string // path for the file output
}

var (
	mu      sync.Mutex
	logFile io.Closer // file opened by the last Setup, if any
)

// Setup replaces the global logger. It may be called again, e.g. when the
// CLI reloads its config; a log file opened by an earlier call is closed.
func Setup(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	out, closer, err := openOutput(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	if strings.EqualFold(cfg.Format, "text") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()

	previous := logFile
	logFile = closer
	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// Close releases the log file, if one is open, and points the global logger
// at stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	log.Logger = log.Logger.Output(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// openOutput returns the writer for cfg.Output and, for files, its closer.
func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	switch cfg.Output {
	case "file":
		path := cfg.File
		if path == "" {
			path = DefaultFile
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, f, nil
	case "stderr":
		return os.Stderr, nil, nil
	case "discard":
		// the TUI owns the terminal
		return io.Discard, nil, nil
	default:
		return os.Stdout, nil, nil
	}
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log.Logger
}

// WithComponent returns a child of the global logger tagged with a
// component name.
func WithComponent(name string) *zerolog.Logger {
	l := log.With().Str("component", name).Logger()
	return &l
}

// Event helpers for chaining fields onto one log line.

func DebugEvent() *zerolog.Event { return log.Debug() }
func InfoEvent() *zerolog.Event  { return log.Info() }
func WarnEvent() *zerolog.Event  { return log.Warn() }
func ErrorEvent() *zerolog.Event { return log.Error() }
