// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/slcs/org.glite.slcs.common/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// Components that must report a problem and carry on (unknown extension
// tokens, file permission failures, trust chain diagnostics) receive a Logger
// through their constructor instead of writing to a package level logger.
type Logger interface {
	// Printf formats and prints an informational message.
	Printf(format string, v ...any)
	// Println prints an informational message with a newline.
	Println(v ...any)
	// Debugf formats a diagnostic message. It may be discarded.
	Debugf(format string, v ...any)
	// Warnf formats a message about a recovered problem.
	Warnf(format string, v ...any)
	// Errorf formats a message about a failed operation.
	Errorf(format string, v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct {
	logger  *log.Logger
	verbose bool
}

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output. Debug messages are dropped
// until [CLILogger.SetVerbose] enables them.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stderr, "", 0)
	return &CLILogger{logger: l}
}

// SetVerbose toggles debug output.
func (c *CLILogger) SetVerbose(v bool) { c.verbose = v }

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// Debugf prints a diagnostic message when verbose output is enabled.
func (c *CLILogger) Debugf(format string, v ...any) {
	if !c.verbose {
		return
	}
	c.logger.Printf("debug: "+format, v...)
}

// Warnf prints a warning.
func (c *CLILogger) Warnf(format string, v ...any) { c.logger.Printf("warning: "+format, v...) }

// Errorf prints an error.
func (c *CLILogger) Errorf(format string, v ...any) { c.logger.Printf("error: "+format, v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one JSON object per line. It is meant for
// running the client unattended, where log lines are collected by another
// process.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
	debug  bool
	now    func() time.Time
}

// NewJSONLogger creates a structured logger writing to writer.
// A nil writer discards everything. Debug entries are only written when
// debug is true.
func NewJSONLogger(writer io.Writer, debug bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		writer: writer,
		debug:  debug,
		now:    time.Now,
	}
}

// logEntry is the JSON shape of a single line.
type logEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// write encodes one entry through a pooled buffer and writes it atomically.
func (j *JSONLogger) write(level, msg string) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()         // Reset the buffer to prevent data leaks
		gc.Default.Put(buf) // Return the buffer to the pool for reuse
	}()

	entry := logEntry{
		Time:    j.now().UTC().Format(time.RFC3339),
		Level:   level,
		Message: msg,
	}
	if err := json.NewEncoder(buf).Encode(entry); err != nil {
		return
	}

	j.mu.Lock()
	_, _ = j.writer.Write(buf.Bytes())
	j.mu.Unlock()
}

// Printf logs an informational entry.
func (j *JSONLogger) Printf(format string, v ...any) { j.write("info", fmt.Sprintf(format, v...)) }

// Println logs an informational entry.
func (j *JSONLogger) Println(v ...any) { j.write("info", strings.TrimSuffix(fmt.Sprintln(v...), "\n")) }

// Debugf logs a debug entry when debug output is enabled.
func (j *JSONLogger) Debugf(format string, v ...any) {
	if !j.debug {
		return
	}
	j.write("debug", fmt.Sprintf(format, v...))
}

// Warnf logs a warning entry.
func (j *JSONLogger) Warnf(format string, v ...any) { j.write("warn", fmt.Sprintf(format, v...)) }

// Errorf logs an error entry.
func (j *JSONLogger) Errorf(format string, v ...any) { j.write("error", fmt.Sprintf(format, v...)) }

// SetOutput sets the output destination for the JSON logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (j *JSONLogger) SetOutput(w io.Writer) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if w == nil {
		j.writer = io.Discard
	} else {
		j.writer = w
	}
}

// discard drops every message.
type discard struct{}

func (discard) Printf(string, ...any) {}
func (discard) Println(...any)        {}
func (discard) Debugf(string, ...any) {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
func (discard) SetOutput(io.Writer)   {}

// Discard is a Logger that writes nothing. Constructors fall back to it when
// they are given a nil Logger.
var Discard Logger = discard{}

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard
	}
	return l
}
