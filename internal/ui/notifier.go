package ui

import (
	"fmt"
	"io"
	"sync"
)

// Level is the severity of a user-visible notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces transient, non-blocking notifications to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Success is shorthand for Notify(LevelSuccess, ...).
func Success(n Notifier, format string, args ...any) {
	n.Notify(LevelSuccess, fmt.Sprintf(format, args...))
}

// Warn is shorthand for Notify(LevelWarning, ...).
func Warn(n Notifier, format string, args ...any) {
	n.Notify(LevelWarning, fmt.Sprintf(format, args...))
}

// Error is shorthand for Notify(LevelError, ...).
func Error(n Notifier, format string, args ...any) {
	n.Notify(LevelError, fmt.Sprintf(format, args...))
}

// Info is shorthand for Notify(LevelInfo, ...).
func Info(n Notifier, format string, args ...any) {
	n.Notify(LevelInfo, fmt.Sprintf(format, args...))
}

// TerminalNotifier prints notifications as single prefixed lines.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalNotifier writes notifications to w.
func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

var levelPrefix = map[Level]string{
	LevelInfo:    "·",
	LevelSuccess: "✔",
	LevelWarning: "!",
	LevelError:   "✘",
}

func (t *TerminalNotifier) Notify(level Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix, ok := levelPrefix[level]
	if !ok {
		prefix = "·"
	}
	fmt.Fprintf(t.w, "%s %s\n", prefix, message)
}

// Notification is one recorded notification.
type Notification struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	r.items = append(r.items, Notification{Level: level, Message: message})
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Count returns how many notifications of level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, item := range r.items {
		if item.Level == level {
			n++
		}
	}
	return n
}
