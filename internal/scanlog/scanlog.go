package scanlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger is the user-facing scan journal: append-only UTF-8 text, one
// redacted line per event, serialized by a single lock. Distinct from the
// structured slog output, which is for operators rather than the scan
// history surface.
type Logger struct {
	path string
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// Open creates (or appends to) the scan log at path. An empty path yields a
// disabled logger whose methods are no-ops.
func Open(path string) (*Logger, error) {
	trimmed := strings.TrimSpace(path)
	l := &Logger{path: trimmed, now: time.Now}
	if trimmed == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure scan log dir: %w", err)
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open scan log %s: %w", trimmed, err)
	}
	l.file = file
	return l, nil
}

// AppEvent appends one redacted line for an app-scoped event.
func (l *Logger) AppEvent(appID uint32, format string, args ...any) {
	l.write(fmt.Sprintf("App %d: %s", appID, fmt.Sprintf(format, args...)))
}

// Event appends one redacted line for a run-scoped event.
func (l *Logger) Event(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}

func (l *Logger) write(message string) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s\n", l.now().Format(timestampLayout), Redact(message))

	l.mu.Lock()
	defer l.mu.Unlock()
	// Scan logging must never take the engine down; a full disk just loses
	// the line.
	_, _ = l.file.WriteString(line)
}

// Path returns the on-disk location backing the logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the log file handle.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
