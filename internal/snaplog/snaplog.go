// Package snaplog appends one JSON record per refresh to a file, as a
// single JSON array, for offline inspection of what the monitor saw.
package snaplog

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"tcpcount/internal/monitor"
)

// Entry is one refresh observation.
type Entry struct {
	CapturedAt  time.Time            `json:"captured_at"`
	Filter      string               `json:"filter"`
	ActiveCount int                  `json:"active_count"`
	TotalCount  int                  `json:"total_count"`
	Active      []monitor.Connection `json:"active"`
}

type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	closeFn func() error
	pretty  bool
	started bool
	first   bool
}

// New opens a logger writing to path; "-" means stdout. An empty path
// returns a nil logger, which every method treats as a no-op.
func New(path string, pretty bool) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return &Logger{w: os.Stdout, pretty: pretty, first: true}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{w: f, closeFn: f.Close, pretty: pretty, first: true}, nil
}

// NewWithWriter wraps an existing writer and never closes it.
func NewWithWriter(w io.Writer, pretty bool) *Logger {
	return &Logger{w: w, pretty: pretty, first: true}
}

func (l *Logger) Write(entry Entry) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		if _, err := io.WriteString(l.w, "[\n"); err != nil {
			return err
		}
		l.started = true
	}
	if !l.first {
		if _, err := io.WriteString(l.w, ",\n"); err != nil {
			return err
		}
	}
	l.first = false

	var (
		out []byte
		err error
	)
	if l.pretty {
		out, err = json.MarshalIndent(entry, "  ", "  ")
	} else {
		out, err = json.Marshal(entry)
	}
	if err != nil {
		return err
	}

	if _, err := l.w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(l.w, "\n")
	return err
}

// Close writes the array footer and releases the file.
func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		if _, err := io.WriteString(l.w, "]\n"); err != nil {
			return err
		}
		l.started = false
	}
	if l.closeFn != nil {
		return l.closeFn()
	}
	return nil
}
