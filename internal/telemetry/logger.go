package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Logger is the structured event log. Event names are dotted, e.g.
// "store.save_failed".
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type JSONLogger struct {
	l *clog.Logger
	w io.WriteCloser
}

// NewJSONLogger appends JSON lines to path; an empty path discards output.
func NewJSONLogger(path, level string) (*JSONLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var w io.WriteCloser = nopCloser{Writer: io.Discard}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}
	return NewJSONLoggerWriter(w, lvl), nil
}

// NewJSONLoggerWriter logs to w at lvl.
func NewJSONLoggerWriter(w io.WriteCloser, lvl clog.Level) *JSONLogger {
	l := clog.NewWithOptions(w, clog.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       clog.JSONFormatter,
		Prefix:          "crossword",
	})
	return &JSONLogger{l: l, w: w}
}

func ParseLevel(raw string) (clog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return clog.InfoLevel, nil
	case "debug":
		return clog.DebugLevel, nil
	case "warn", "warning":
		return clog.WarnLevel, nil
	case "error":
		return clog.ErrorLevel, nil
	}
	return clog.InfoLevel, fmt.Errorf("invalid log level %q", raw)
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Debug(msg, keyvals(fields)...)
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Info(msg, keyvals(fields)...)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Error(msg, keyvals(fields)...)
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// keyvals flattens fields in key order so lines are stable.
func keyvals(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, map[string]any) {}
func (Nop) Info(string, map[string]any)  {}
func (Nop) Error(string, map[string]any) {}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
