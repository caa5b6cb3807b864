package logging

import "sync"

// DefaultRingSize is the number of entries kept for the interactive log panel.
const DefaultRingSize = 500

// Ring keeps the most recent log entries in a fixed-size circular buffer.
type Ring struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

// NewRing returns a ring holding up to size entries.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{entries: make([]Entry, size)}
}

// Add appends an entry, overwriting the oldest once full.
func (r *Ring) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// Last returns up to n of the newest entries, oldest first.
func (r *Ring) Last(n int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}

	out := make([]Entry, n)
	start := (r.head - n + len(r.entries)) % len(r.entries)
	for i := range out {
		out[i] = r.entries[(start+i)%len(r.entries)]
	}
	return out
}

// Entries returns every buffered entry, oldest first.
func (r *Ring) Entries() []Entry {
	return r.Last(r.Len())
}

// Len returns the number of buffered entries.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Clear drops every buffered entry.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.count = 0
	clear(r.entries)
}
