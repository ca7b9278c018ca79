// Package logger keeps the trainer's event log: one timestamped line per
// event, appended to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// EventLogger writes timestamped events to a file.  It is safe for
// concurrent use.
type EventLogger struct {
	filePath string
	echo     io.Writer
	now      func() time.Time
	mu       sync.Mutex
}

// NewEventLogger creates a logger writing to filePath.  The file is created
// on the first event.
func NewEventLogger(filePath string) *EventLogger {
	return &EventLogger{filePath: filePath, now: time.Now}
}

// Echo copies every event to w as well as the file.  Pass nil to stop.
func (el *EventLogger) Echo(w io.Writer) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.echo = w
}

// Path returns the file the logger appends to.
func (el *EventLogger) Path() string {
	return el.filePath
}

// Log writes a single event with timestamp.  Errors are ignored but printed
// to standard error.
func (el *EventLogger) Log(format string, args ...any) {
	el.mu.Lock()
	defer el.mu.Unlock()
	msg := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	ts := el.now().Format(time.RFC3339)
	line := fmt.Sprintf("%s - %s\n", ts, msg)
	if el.echo != nil {
		_, _ = io.WriteString(el.echo, line)
	}
	// Open file in append mode, create if not exists
	f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log error: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "log write error: %v\n", err)
	}
}

// Tail returns at most the last n events, oldest first.  A missing log file
// is reported as an error wrapping os.ErrNotExist.
func (el *EventLogger) Tail(n int) ([]string, error) {
	el.mu.Lock()
	defer el.mu.Unlock()
	data, err := os.ReadFile(el.filePath)
	if err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	// Drop empty trailing line
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
