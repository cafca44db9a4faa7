// Package audit provides append-only JSONL audit logging for store
// operations. Events record what happened and to which entry path; secret
// material never appears in an event.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operation names recorded in events.
const (
	OpList     = "store.list"
	OpShow     = "entry.show"
	OpCreate   = "entry.create"
	OpUpdate   = "entry.update"
	OpDelete   = "entry.delete"
	OpMove     = "entry.move"
	OpSearch   = "store.search"
	OpSyncPull = "store.sync_pull"
	OpSyncPush = "store.sync_push"
	OpInit     = "store.init"
)

// Sources of an operation.
const (
	SourceCLI = "cli"
	SourceMCP = "mcp"
	SourceUI  = "ui"
)

// Results of an operation.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Event is one audit record, serialized as a single JSON line.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"`
	Source    string    `json:"source"`
	Path      string    `json:"path,omitempty"`
	Result    string    `json:"result"`
	Error     string    `json:"error,omitempty"`
}

// Logger appends events to a JSONL file. A nil Logger is valid and
// discards everything, so callers never need to branch on whether
// auditing is enabled.
type Logger struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewLogger creates a logger writing to audit.log under dir. The
// directory is created lazily on first write.
func NewLogger(dir string) *Logger {
	return &Logger{path: filepath.Join(dir, "audit.log"), now: time.Now}
}

// LogSuccess records a successful operation.
func (l *Logger) LogSuccess(op, source, path string) error {
	return l.append(Event{Operation: op, Source: source, Path: path, Result: ResultSuccess})
}

// LogError records a failed operation with its diagnostic message.
func (l *Logger) LogError(op, source, path, errMsg string) error {
	return l.append(Event{Operation: op, Source: source, Path: path, Result: ResultError, Error: errMsg})
}

func (l *Logger) append(ev Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ev.Timestamp = l.now().UTC()
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("audit: failed to marshal event: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("audit: failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("audit: failed to open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: failed to write event: %w", err)
	}
	return nil
}

// ListEvents reads back recorded events, newest-last. Corrupt lines are
// skipped. A limit of 0 means no limit; with a limit, the most recent
// events are kept. Events older than since are excluded when since is
// non-zero.
func (l *Logger) ListEvents(limit int, since time.Time) ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("audit: failed to open log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		if !since.IsZero() && ev.Timestamp.Before(since) {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: failed to read log: %w", err)
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
