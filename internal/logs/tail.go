// internal/logs/tail.go
package logs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"clawdeck/internal/eventhub"
)

// Tailer follows the gateway log file and feeds parsed lines into the
// store and the event hub. The file may not exist yet when the tailer
// starts; it picks the file up on creation and survives rotation.
type Tailer struct {
	path    string
	store   *Store
	hub     *eventhub.EventHub
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	file    *os.File
	reader  *bufio.Reader
	partial string
	closed  bool
}

// NewTailer creates a tailer for the given log file.
func NewTailer(path string, store *Store, hub *eventhub.EventHub) (*Tailer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory, not the file: the file may be created,
	// truncated or replaced while we run.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch log dir: %w", err)
	}

	return &Tailer{
		path:    path,
		store:   store,
		hub:     hub,
		watcher: watcher,
		done:    make(chan struct{}),
	}, nil
}

// Start begins following the file. Existing content is skipped; only
// lines written after Start are captured.
func (t *Tailer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("tailer is closed")
	}

	if file, err := os.Open(t.path); err == nil {
		file.Seek(0, io.SeekEnd)
		t.file = file
		t.reader = bufio.NewReader(file)
	}

	go t.watch()
	return nil
}

// Close stops following and releases the watcher.
func (t *Tailer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
	return t.watcher.Close()
}

func (t *Tailer) watch() {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Name != t.path {
				continue
			}
			t.handleEvent(event)

		case _, ok := <-t.watcher.Errors:
			if !ok {
				return
			}

		case <-t.done:
			return
		}
	}
}

func (t *Tailer) handleEvent(event fsnotify.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		if t.file != nil {
			t.file.Close()
		}
		file, err := os.Open(t.path)
		if err != nil {
			return
		}
		t.file = file
		t.reader = bufio.NewReader(file)
		t.partial = ""
		t.drain()

	case event.Op&fsnotify.Write == fsnotify.Write:
		if t.file == nil {
			file, err := os.Open(t.path)
			if err != nil {
				return
			}
			t.file = file
			t.reader = bufio.NewReader(file)
		}
		t.drain()

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		if t.file != nil {
			t.file.Close()
			t.file = nil
			t.reader = nil
			t.partial = ""
		}
	}
}

// drain reads all complete lines currently available. ReadString hands
// back whatever it consumed together with the error, so an unterminated
// fragment is carried over and prepended when the rest arrives.
func (t *Tailer) drain() {
	for {
		chunk, err := t.reader.ReadString('\n')
		if err != nil {
			t.partial += chunk
			return
		}
		line := strings.TrimRight(t.partial+chunk, "\r\n")
		t.partial = ""
		if line == "" {
			continue
		}
		entry := ParseLine(line)
		t.store.Append(entry)
		t.hub.EmitLogEntry(eventhub.LogEntryEvent{
			Time:    entry.Time.Format(time.RFC3339),
			Level:   entry.Level,
			Module:  entry.Module,
			Message: entry.Message,
		})
	}
}

// ParseLine parses a gateway log line of the form
// "2026-01-02T15:04:05Z [INFO] [module] message". Lines that do not match
// are kept whole as info messages.
func ParseLine(line string) Entry {
	entry := Entry{Time: time.Now(), Level: "info", Message: line}

	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return entry
	}
	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return entry
	}
	entry.Time = ts
	rest := fields[1]

	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end > 0 {
			entry.Level = strings.ToLower(rest[1:end])
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end > 0 {
			entry.Module = rest[1:end]
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	entry.Message = rest
	return entry
}
