package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a history entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook keeps a plain-text history of scaffold runs, one line per event,
// so `backforge history` can show what was generated where.
type Logbook struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		strings.Join(strings.Fields(message), " "),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent entries plus the total
// number of entries on disk.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total == 0 {
		return nil, 0
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Entry is one `backforge new` run.
type Entry struct {
	Project   string
	Dir       string
	Stack     string
	Features  []string
	Conflicts int
	// Err is set when generation failed.
	Err error
}

func (e Entry) level() Level {
	switch {
	case e.Err != nil:
		return LevelError
	case e.Conflicts > 0:
		return LevelWarn
	default:
		return LevelInfo
	}
}

func (e Entry) message() string {
	if e.Err != nil {
		return fmt.Sprintf("failed %s at %q stack=%s: %v", e.Project, e.Dir, e.Stack, e.Err)
	}
	msg := fmt.Sprintf("created %s at %q stack=%s", e.Project, e.Dir, e.Stack)
	if len(e.Features) > 0 {
		msg += " features=" + strings.Join(e.Features, ",")
	}
	if e.Conflicts > 0 {
		msg += fmt.Sprintf(" conflicts=%d", e.Conflicts)
	}
	return msg
}

// Record appends a generation run. Failed runs are ERROR, runs with
// version or script conflicts are WARN.
func (l *Logbook) Record(e Entry) {
	l.Append(e.level(), e.message())
}
