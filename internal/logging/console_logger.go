package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// ConsoleLogger writes log messages to stderr through a zerolog console writer.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	mu   sync.Mutex
	zlog zerolog.Logger
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to w.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     true,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: formatLevel,
	}

	return &ConsoleLogger{
		zlog: zerolog.New(out).Level(level),
	}
}

// formatLevel renders the bracketed prefixes; info lines carry none.
func formatLevel(i interface{}) string {
	switch fmt.Sprint(i) {
	case zerolog.DebugLevel.String():
		return "[VERBOSE]"
	case zerolog.ErrorLevel.String():
		return "[ERROR]"
	default:
		return ""
	}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(sprintf(format, args))
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Info().Msg(sprintf(format, args))
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Error().Msg(sprintf(format, args))
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

var _ dexplore.Logger = (*ConsoleLogger)(nil)
