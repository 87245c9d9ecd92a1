// Package adaptive records strategy outcomes and re-ranks strategy order per
// platform from them. State is process-local and append-only; conversation
// content never enters it.
package adaptive

import (
	"sync"
	"time"

	"chat-export-go/internal/platform"
)

// defaultLogCap bounds outcome log memory; the oldest half is dropped on
// overflow.
const defaultLogCap = 4096

// Outcome records one strategy attempt.
type Outcome struct {
	Platform   platform.Platform
	Strategy   string
	Succeeded  bool
	Latency    time.Duration
	ErrorClass string
}

// Log is an append-only, bounded, concurrency-safe outcome log. Appends from
// concurrent requests never race or lose entries; ordering between unrelated
// requests is immaterial.
type Log struct {
	mu      sync.Mutex
	entries []Outcome
	cap     int
}

// NewLog creates a log with the default capacity.
func NewLog() *Log {
	return &Log{cap: defaultLogCap}
}

// Record appends one outcome.
func (l *Log) Record(o Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.cap {
		half := len(l.entries) / 2
		l.entries = append(l.entries[:0], l.entries[half:]...)
	}
	l.entries = append(l.entries, o)
}

// Snapshot returns a copy of the current entries.
func (l *Log) Snapshot() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Outcome{}, l.entries...)
}

// Len returns the number of recorded outcomes.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
