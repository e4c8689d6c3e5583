// Package notify delivers one-shot user-visible notices, the headless
// counterpart of a toast.
package notify

import (
	"sync"

	"studyhub/internal/logging"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier is called once per mutation outcome.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// LogNotifier writes notices as log lines.
type LogNotifier struct {
	log *logging.Logger
}

func NewLogNotifier(log *logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(logging.Fields{"component": "notify"})}
}

func (n *LogNotifier) Success(title, message string) {
	n.log.Info(title, logging.Fields{"event": "notice", "notice_level": LevelSuccess, "notice": message})
}

func (n *LogNotifier) Error(title, message string) {
	n.log.Warn(title, logging.Fields{"event": "notice", "notice_level": LevelError, "notice": message})
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Success(title, message string) {
	r.add(Notice{Level: LevelSuccess, Title: title, Message: message})
}

func (r *Recorder) Error(title, message string) {
	r.add(Notice{Level: LevelError, Title: title, Message: message})
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
