// Package logging adapts github.com/baditaflorin/l to the key/value logger
// used across label-verify.
package logging

import (
	"io"
	"os"

	"github.com/baditaflorin/l"
)

// Options controls logger construction.
type Options struct {
	// Debug enables Debug-level messages. Info and above are always written.
	Debug bool

	// JSON switches from text lines to JSON objects.
	JSON bool

	// Output defaults to os.Stderr; stdout is reserved for the MCP protocol.
	Output io.Writer
}

// Logger writes structured messages with alternating key/value pairs:
//
//	log.Info("label verified", "status", res.OverallStatus, "backend", "tesseract")
//
// A nil *Logger or one built by Nop discards everything.
type Logger struct {
	logger l.Logger
	debug  bool
}

// New creates a Logger backed by an asynchronous l.Logger. Call Close before
// exit to flush buffered output.
func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := l.LevelInfo
	if opts.Debug {
		level = l.LevelDebug
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      out,
		JsonFormat:  opts.JSON,
		MinLevel:    level,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024, // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  5,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}

	return &Logger{logger: logger, debug: opts.Debug}, nil
}

// Nop returns a Logger that discards all messages.
func Nop() *Logger {
	return &Logger{}
}

// DebugEnabled reports whether Debug messages are written.
func (lg *Logger) DebugEnabled() bool {
	return lg != nil && lg.logger != nil && lg.debug
}

// Debug logs a debug message when debug output is enabled.
func (lg *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !lg.DebugEnabled() {
		return
	}
	lg.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message.
func (lg *Logger) Info(msg string, keysAndValues ...interface{}) {
	if lg == nil || lg.logger == nil {
		return
	}
	lg.logger.Info(msg, keysAndValues...)
}

// Warn logs a warning message.
func (lg *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if lg == nil || lg.logger == nil {
		return
	}
	lg.logger.Warn(msg, keysAndValues...)
}

// Error logs an error message.
func (lg *Logger) Error(msg string, keysAndValues ...interface{}) {
	if lg == nil || lg.logger == nil {
		return
	}
	lg.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the underlying logger.
func (lg *Logger) Close() error {
	if lg == nil || lg.logger == nil {
		return nil
	}
	return lg.logger.Close()
}
