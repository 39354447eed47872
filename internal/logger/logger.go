// Package logger provides leveled logging for taskbox.
// Debug output is suppressed unless verbose mode is enabled.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

// Logger defines the taskbox logging contract.
// Implementations must be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// StdLogger wraps Go's standard logger with level prefixes.
type StdLogger struct {
	mu      sync.RWMutex
	logger  *log.Logger
	verbose bool
}

// New creates a StdLogger writing to w.
func New(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		logger:  log.New(w, "", log.LstdFlags),
		verbose: verbose,
	}
}

// SetVerbose enables or disables Debug output.
func (l *StdLogger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// SetOutput redirects log output. Useful for testing and for MCP mode,
// where stdout is reserved for the protocol.
func (l *StdLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

func (l *StdLogger) Info(msg string, args ...any) {
	l.logger.Printf("[INFO] "+msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...any) {
	l.logger.Printf("[WARN] "+msg, args...)
}

func (l *StdLogger) Error(msg string, args ...any) {
	l.logger.Printf("[ERROR] "+msg, args...)
}

func (l *StdLogger) Debug(msg string, args ...any) {
	l.mu.RLock()
	verbose := l.verbose
	l.mu.RUnlock()
	if verbose {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (Nop) Debug(string, ...any) {}

// Default writes to stderr with Debug disabled.
var Default = New(os.Stderr, false)
