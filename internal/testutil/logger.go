package testutil

import "sync"

// Entry is one captured log record.
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// CaptureLogger records log calls so tests can assert on warnings emitted by
// best-effort paths.
type CaptureLogger struct {
	mu      sync.Mutex
	Entries []Entry
}

func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func (l *CaptureLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *CaptureLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *CaptureLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *CaptureLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *CaptureLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

// Warnings returns the captured WARN-level messages.
func (l *CaptureLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Level == "WARN" {
			out = append(out, e.Msg)
		}
	}
	return out
}
