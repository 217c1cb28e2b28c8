package activity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Filename is the activity log inside the state directory.
const Filename = "activity.jsonl"

// Type identifies what kind of activity this is
type Type string

const (
	TypeTaskAdded     Type = "task_added"
	TypeTaskUpdated   Type = "task_updated"
	TypeTaskDeleted   Type = "task_deleted"
	TypeTaskDone      Type = "task_done"
	TypeExport        Type = "export"
	TypeTimer         Type = "timer"          // start, pause, reset, configure
	TypePhaseFinished Type = "phase_finished" // a work or break phase ran out
	TypeError         Type = "error"
)

// Entry represents a single activity log entry
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	Type      Type           `json:"type"`
	Summary   string         `json:"summary"`
	TaskID    int            `json:"task_id,omitempty"`
	Source    string         `json:"source,omitempty"` // "tui", "mcp"
	Data      map[string]any `json:"data,omitempty"`
}

// Log is the activity logger
type Log struct {
	path   string
	source string
	mu     sync.Mutex
}

// New creates an activity logger writing to <statePath>/activity.jsonl.
// source tags every entry with the front end that produced it.
func New(statePath, source string) *Log {
	return &Log{
		path:   filepath.Join(statePath, Filename),
		source: source,
	}
}

// Path returns the log file.
func (l *Log) Path() string { return l.path }

// Log appends an entry to the activity log
func (l *Log) Log(entry Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	// Set timestamp if not provided
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Source == "" {
		entry.Source = l.source
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Helper methods for common event types

// LogTask logs a task mutation.
func (l *Log) LogTask(t Type, taskID int, title string) error {
	return l.Log(Entry{
		Type:    t,
		Summary: title,
		TaskID:  taskID,
	})
}

// LogExport logs a CSV export.
func (l *Log) LogExport(path string, count int) error {
	return l.Log(Entry{
		Type:    TypeExport,
		Summary: path,
		Data: map[string]any{
			"count": count,
		},
	})
}

// LogTimer logs a timer control action with the label it left behind.
func (l *Log) LogTimer(action, label string) error {
	return l.Log(Entry{
		Type:    TypeTimer,
		Summary: action,
		Data: map[string]any{
			"label": label,
		},
	})
}

// LogPhaseFinished logs the end of a phase and its configured length.
func (l *Log) LogPhaseFinished(mode string, minutes int) error {
	return l.Log(Entry{
		Type:    TypePhaseFinished,
		Summary: mode + " finished",
		Data: map[string]any{
			"mode":    mode,
			"minutes": minutes,
		},
	})
}

// LogError logs an error
func (l *Log) LogError(summary string, err error, data map[string]any) error {
	if data == nil {
		data = make(map[string]any)
	}
	data["error"] = err.Error()
	return l.Log(Entry{
		Type:    TypeError,
		Summary: summary,
		Data:    data,
	})
}

// Query methods

// Recent returns the last n entries
func (l *Log) Recent(n int) ([]Entry, error) {
	entries, err := l.readAll()
	if err != nil {
		return nil, err
	}

	if n >= len(entries) {
		return entries, nil
	}
	return entries[len(entries)-n:], nil
}

// Today returns entries from today
func (l *Log) Today() ([]Entry, error) {
	entries, err := l.readAll()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var result []Entry
	for _, e := range entries {
		if !e.Timestamp.Before(today) {
			result = append(result, e)
		}
	}
	return result, nil
}

// ByType returns entries of a specific type, most recent first
func (l *Log) ByType(t Type, limit int) ([]Entry, error) {
	entries, err := l.readAll()
	if err != nil {
		return nil, err
	}

	var result []Entry
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		if entries[i].Type == t {
			result = append(result, entries[i])
		}
	}
	return result, nil
}

// FocusMinutesToday sums the configured length of every Work phase
// finished today.
func (l *Log) FocusMinutesToday() (int, error) {
	entries, err := l.Today()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		if e.Type != TypePhaseFinished || e.Data["mode"] != "Work" {
			continue
		}
		// JSON numbers decode as float64.
		if m, ok := e.Data["minutes"].(float64); ok {
			total += int(m)
		}
	}
	return total, nil
}

// readAll reads all entries from the log file
func (l *Log) readAll() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // skip malformed entries
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
