// internal/logs/buffer.go
package logs

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// DefaultCapacity bounds the in-memory log store.
const DefaultCapacity = 5000

// Entry is one parsed gateway log line.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Module  string    `json:"module,omitempty"`
	Message string    `json:"message"`
}

// Filter narrows a log query. Zero values match everything.
type Filter struct {
	Level  string `json:"level,omitempty"`
	Module string `json:"module,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Store is a bounded ring of log entries. Oldest entries are dropped
// once the capacity is reached.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	start    int
	count    int
	capacity int
}

// NewStore creates a store with the given capacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Append adds one entry, evicting the oldest when full.
func (s *Store) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := (s.start + s.count) % s.capacity
	s.entries[idx] = e
	if s.count < s.capacity {
		s.count++
	} else {
		s.start = (s.start + 1) % s.capacity
	}
}

// Query returns entries matching the filter, oldest first.
func (s *Store) Query(f Filter) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Entry, 0, s.count)
	for i := 0; i < s.count; i++ {
		e := s.entries[(s.start+i)%s.capacity]
		if f.Level != "" && !strings.EqualFold(e.Level, f.Level) {
			continue
		}
		if f.Module != "" && e.Module != f.Module {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Message), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, e)
	}

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[len(matched)-f.Limit:]
	}
	return matched
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Clear drops all stored entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = 0
	s.count = 0
}

// ExportText renders the matching entries as plain text, one line each.
func (s *Store) ExportText(f Filter) string {
	var b strings.Builder
	for _, e := range s.Query(f) {
		fmt.Fprintf(&b, "%s [%s]", e.Time.Format(time.RFC3339), strings.ToUpper(e.Level))
		if e.Module != "" {
			fmt.Fprintf(&b, " [%s]", e.Module)
		}
		b.WriteString(" ")
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	return b.String()
}

// ExportGzip renders the matching entries as gzip-compressed text.
func (s *Store) ExportGzip(f Filter) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s.ExportText(f))); err != nil {
		return nil, fmt.Errorf("failed to compress logs: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress logs: %w", err)
	}
	return buf.Bytes(), nil
}
