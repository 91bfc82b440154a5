package logging

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// LogEntry is one record kept for /api/logs.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the most recent entries up to a fixed capacity.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int // slot the next Write fills once the buffer is full
}

// NewRingBuffer creates a buffer holding at most size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size < 1 {
		size = 1
	}
	return &RingBuffer{entries: make([]LogEntry, 0, size)}
}

// Write stores entry, evicting the oldest when full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.entries) < cap(rb.entries) {
		rb.entries = append(rb.entries, entry)
		return
	}
	rb.entries[rb.next] = entry
	rb.next = (rb.next + 1) % len(rb.entries)
}

// ReadAll returns a copy of the entries, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if len(rb.entries) == 0 {
		return nil
	}
	return slices.Concat(rb.entries[rb.next:], rb.entries[:rb.next])
}

// Tail returns the newest n entries, oldest first. n <= 0 returns all.
func (rb *RingBuffer) Tail(n int) []LogEntry {
	all := rb.ReadAll()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Filter returns the entries at or above minLevel, optionally restricted to
// one module.
func (rb *RingBuffer) Filter(minLevel, module string) []LogEntry {
	threshold := levelOr(minLevel, slog.LevelDebug)
	return slices.DeleteFunc(rb.ReadAll(), func(e LogEntry) bool {
		return (module != "" && e.Module != module) || levelOr(e.Level, slog.LevelInfo) < threshold
	})
}

// Count returns the number of stored entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.entries)
}
