package history

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// DefaultMaxEntries is the number of entries MemoryBackend keeps by default.
const DefaultMaxEntries = 1000

// MemoryBackend implements Backend using in-memory storage.
// Entries are lost when the process exits. When MaxEntries is reached the
// oldest entry is evicted.
type MemoryBackend struct {
	mu         sync.RWMutex
	entries    []*Entry // oldest first
	nextID     int64
	maxEntries int
}

// NewMemoryBackend creates a memory backend holding at most maxEntries
// entries. A non-positive value selects DefaultMaxEntries.
func NewMemoryBackend(maxEntries int) *MemoryBackend {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryBackend{maxEntries: maxEntries, nextID: 1}
}

// Record stores a copy of entry.
func (m *MemoryBackend) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if entry.Store == "" {
		return errors.New("store cannot be empty")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.nextID
	m.nextID++

	m.entries = append(m.entries, copyEntry(entry))
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[len(m.entries)-m.maxEntries:]
	}
	return nil
}

// List returns matching entries, newest first.
func (m *MemoryBackend) List(ctx context.Context, q Query) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if !q.matches(m.entries[i]) {
			continue
		}
		out = append(out, copyEntry(m.entries[i]))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Latest returns the newest entry for store.
func (m *MemoryBackend) Latest(ctx context.Context, store string) (*Entry, error) {
	entries, err := m.List(ctx, Query{Store: store, Limit: 1})
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

// Prune removes entries recorded before olderThan.
func (m *MemoryBackend) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.RecordedAt.Before(olderThan) {
			kept = append(kept, e)
		}
	}
	deleted := len(m.entries) - len(kept)
	clear(m.entries[len(kept):])
	m.entries = kept
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}

func copyEntry(e *Entry) *Entry {
	c := *e
	c.Changed = slices.Clone(e.Changed)
	c.Errors = slices.Clone(e.Errors)
	return &c
}
