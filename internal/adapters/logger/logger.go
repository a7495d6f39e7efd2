// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/buildfinder/internal/core/ports"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method provided by zerr.Error
// (go.trai.ch/zerr v0.3.0+). If zerr's API changes, errors will gracefully
// fall back to standard error handling.
type messager interface {
	Message() string
}

// metadataCarrier describes a zerr.Error decorated via zerr.With. Absent on
// plain standard errors.
type metadataCarrier interface {
	Metadata() map[string]any
}

// ErrorEntry is one hop of an error chain, as surfaced to the user: its own
// message (without any wrapped causes) and any structured metadata attached
// to it via zerr.With.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks err's chain, stopping at the first link that
// does not expose a Message(), since that link's Error() already carries
// whatever text its own causes contributed (a plain %w-wrapped chain has no
// finer-grained boundary to split on).
func collectErrorEntries(err error) []ErrorEntry {
	if err == nil {
		return nil
	}

	var entries []ErrorEntry
	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		var meta map[string]any
		if mc, ok := current.(metadataCarrier); ok {
			meta = mc.Metadata()
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as "Error: ...\n  Caused by:\n    → ..."
// with any metadata indented beneath the entry it belongs to.
func formatErrorEntries(entries []ErrorEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var lines []string
	for i, e := range entries {
		msgLines := strings.Split(e.Message, "\n")
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, l := range msgLines[1:] {
				lines = append(lines, "       "+l)
			}
			appendMetadataLines(&lines, e.Metadata, "       ")
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, l := range msgLines[1:] {
			lines = append(lines, "      "+l)
		}
		appendMetadataLines(&lines, e.Metadata, "      ")
	}
	return strings.Join(lines, "\n")
}

func appendMetadataLines(lines *[]string, meta map[string]any, indent string) {
	if len(meta) == 0 {
		return
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		*lines = append(*lines, fmt.Sprintf("%s%s: %v", indent, k, meta[k]))
	}
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger instance.
func New() ports.Logger {
	handler := NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
		output: os.Stderr,
	}
}

// SetOutput updates the logger's output destination. Thread-safe; preserves
// the current JSON mode setting. A nil writer defaults to os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandlerLocked(w))
}

// SetJSON switches between JSON and pretty logging. The output destination
// is preserved from SetOutput calls.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable

	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(l.newHandlerLocked(w))
}

func (l *Logger) newHandlerLocked(w io.Writer) slog.Handler {
	if l.jsonMode {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return NewPrettyHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// Info logs an informational message with optional structured key/value
// attributes.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message with optional structured key/value
// attributes.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs an error message, expanding a zerr chain into a human-readable
// "Error: ...\n  Caused by: ..." trace, plus any additional key/value
// attributes. In JSON mode the error is attached as a structured field
// instead, since the chain is implicit in the stack.
func (l *Logger) Error(err error, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", append([]any{"error", err}, args...)...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)), args...)
}
