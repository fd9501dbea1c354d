// Package logger implements the small thread-safe logger shared by every
// component of the demo.
//
// Each log line format:
//
//	[1760868300.125] [INFO] input: controller 0 connected
//
// Timestamps are epoch seconds with millisecond precision so lines can be
// matched against the frame timestamps stored in trace files.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"nakazima/padinput/utils"
)

// LoggerInterface is what components depend on.
type LoggerInterface interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Logger writes timestamped log lines to a file or any io.Writer.
type Logger struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
	closed bool
}

// NewLogger opens path in append mode, creating it if needed.
func NewLogger(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger open: %w", err)
	}
	return &Logger{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// NewWriterLogger logs to w. Close flushes but does not close w.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{writer: bufio.NewWriter(w)}
}

// Info logs a message with INFO severity.
func (l *Logger) Info(msg string) {
	l.write("INFO", msg)
}

// Warn logs a message with WARN severity.
func (l *Logger) Warn(msg string) {
	l.write("WARN", msg)
}

// Error logs a message with ERROR severity.
func (l *Logger) Error(msg string) {
	l.write("ERROR", msg)
}

func (l *Logger) write(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%.3f] [%s] %s\n", utils.NowEpochSeconds(), level, msg)

	if l.closed {
		// fallback if closed: print to stderr
		fmt.Fprint(os.Stderr, line)
		return
	}

	if _, err := l.writer.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "logger write failed: %v\n", err)
	}
	if err := l.writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "logger flush failed: %v\n", err)
	}
}

// Close flushes pending output and closes the underlying file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("logger flush: %w", err)
	}
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("logger close: %w", err)
	}
	return nil
}

// StdoutLogger prints untimestamped lines, for tools and tests.
type StdoutLogger struct{}

func (StdoutLogger) Info(msg string)  { fmt.Println("[INFO]", msg) }
func (StdoutLogger) Warn(msg string)  { fmt.Println("[WARN]", msg) }
func (StdoutLogger) Error(msg string) { fmt.Println("[ERROR]", msg) }

// Nop discards everything.
type Nop struct{}

func (Nop) Info(string)  {}
func (Nop) Warn(string)  {}
func (Nop) Error(string) {}
