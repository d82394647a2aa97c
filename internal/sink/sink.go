// Package sink provides the append-only findings log.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level is the severity attached to a sink line. The sink is coarser
// than the risk tiers: tiers are carried in the message text.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Sink receives rendered finding lines. Append is synchronous and
// bounded; a write failure means findings cannot be durably recorded
// and must be treated as fatal by the caller.
type Sink interface {
	Append(level Level, message string) error
}

const timeLayout = "2006-01-02 15:04:05"

// File appends `<timestamp> <LEVEL>: <message>` lines to a single
// destination file, creating it (and its parent directory) on first
// use. It never truncates. Safe for use from one process; concurrent
// runs against the same destination are out of scope.
type File struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

// NewFile opens (or creates) the destination for appending.
func NewFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sink %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink %s: %w", path, err)
	}
	return &File{f: f, now: time.Now}, nil
}

// Append writes one line. The write is flushed by the OS on close;
// no in-process buffering sits between Append and the file.
func (s *File) Append(level Level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s: %s\n", s.now().Format(timeLayout), level, message)
	if _, err := s.f.WriteString(line); err != nil {
		return fmt.Errorf("sink append: %w", err)
	}
	return nil
}

// Close releases the destination file.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Entry is one captured line in a Memory sink.
type Entry struct {
	Level   Level
	Message string
}

// Memory collects lines in order, for tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) Append(level Level, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message})
	return nil
}

// Entries returns a copy of everything appended so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
