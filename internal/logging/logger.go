// Package logging writes one JSON object per line, the format every component
// of the service logs in.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Fields carries the structured attributes of a log line.
type Fields map[string]any

// Logger is safe for concurrent use. The zero value is not usable; use New.
type Logger struct {
	mu     *sync.Mutex
	w      io.Writer
	loc    *time.Location
	static Fields
}

// New returns a logger writing to w with timestamps in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, w: w, loc: loc}
}

// Default logs to stdout in UTC.
func Default() *Logger {
	return New(os.Stdout, time.UTC)
}

// Discard drops everything. Handy in tests.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

// With returns a child logger that adds fields to every line.
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.static)+len(fields))
	for k, v := range l.static {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{mu: l.mu, w: l.w, loc: l.loc, static: merged}
}

// Location is the timezone used for the ts field.
func (l *Logger) Location() *time.Location {
	return l.loc
}

func (l *Logger) Info(msg string, fields Fields) {
	l.write("info", msg, fields)
}

func (l *Logger) Warn(msg string, fields Fields) {
	l.write("warn", msg, fields)
}

func (l *Logger) Error(msg string, fields Fields) {
	l.write("error", msg, fields)
}

// Event writes a line whose level derives from the status field:
// "error" statuses log at error level, anything else at info.
func (l *Logger) Event(fields Fields) {
	level := "info"
	if fields["status"] == "error" {
		level = "error"
	}
	if v, ok := fields["level"].(string); ok {
		level = v
	}
	msg, _ := fields["msg"].(string)
	l.write(level, msg, fields)
}

func (l *Logger) write(level, msg string, fields Fields) {
	entry := make(map[string]any, len(l.static)+len(fields)+3)
	for k, v := range l.static {
		entry[k] = v
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	entry["level"] = level
	if msg != "" {
		entry["msg"] = msg
	}

	b, err := json.Marshal(entry)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"ts":%q,"level":"error","msg":"log marshal failed","error":%q}`,
			time.Now().In(l.loc).Format(time.RFC3339Nano), err.Error()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}
