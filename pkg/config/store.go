package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one published document together with its provenance.
type Snapshot struct {
	// Document is the validated configuration.
	Document *Document

	// Revision uniquely identifies this publication.
	Revision string

	// LoadedAt is when the document was published.
	LoadedAt time.Time

	// Source names where the document came from.
	Source string
}

// ReloadEvent describes one reload attempt, successful or not.
type ReloadEvent struct {
	// Store is the name of the store that reloaded.
	Store string

	// Previous is the snapshot in place before the attempt (nil on first load).
	Previous *Snapshot

	// Current is the newly published snapshot, or nil when the attempt failed.
	Current *Snapshot

	// Err is the reason the attempt failed.
	Err error

	// Duration is how long loading and validation took.
	Duration time.Duration

	// Added, Modified and Removed list the leaf paths that changed.
	Added    []string
	Modified []string
	Removed  []string
}

// Changed reports whether a successful reload altered any value.
func (e ReloadEvent) Changed() bool {
	return len(e.Added)+len(e.Modified)+len(e.Removed) > 0
}

// Observer is notified after every reload attempt. Observers are called
// synchronously on the reloading goroutine and must not call Reload.
type Observer interface {
	ObserveReload(ev ReloadEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev ReloadEvent)

// ObserveReload calls f.
func (f ObserverFunc) ObserveReload(ev ReloadEvent) {
	f(ev)
}

// ErrNotLoaded is returned by Store.Document before the first successful load.
var ErrNotLoaded = errors.New("configuration not loaded")

// Store holds the single active configuration of a host process.
//
// Reload builds a complete new document off the hot path and publishes it
// with one atomic pointer swap. Readers that already hold a snapshot keep a
// consistent view; no reader ever observes a partially updated document.
// A failed reload leaves the current snapshot in place.
type Store struct {
	name      string
	loader    Loader
	logger    *slog.Logger
	observers []Observer

	current atomic.Pointer[Snapshot]

	// reloadMu serializes reloads so that revisions are published in order.
	reloadMu sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for reload messages.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an observer for reload events.
func WithObserver(o Observer) StoreOption {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// NewStore creates an empty store that loads documents with loader.
// Call Reload to publish the first snapshot.
func NewStore(name string, loader Loader, opts ...StoreOption) *Store {
	s := &Store{
		name:   name,
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "config.store", "store", name)
	return s
}

// Name returns the store name.
func (s *Store) Name() string {
	return s.name
}

// Current returns the active snapshot, or nil before the first successful load.
// This function is thread-safe and can be called concurrently.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Document returns the active document.
func (s *Store) Document() (*Document, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Document, nil
}

// Reload loads a new document and publishes it. On failure the previous
// snapshot remains active and the error is returned. A context cancelled
// before publication prevents the swap.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	prev := s.current.Load()

	doc, err := s.loader.Load(ctx)
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("configuration reload failed",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		s.notify(ReloadEvent{Store: s.name, Previous: prev, Err: err, Duration: duration})
		return nil, fmt.Errorf("failed to reload configuration %q: %w", s.name, err)
	}

	snap := s.publish(doc, prev, duration)
	return snap, nil
}

// Swap publishes doc directly, bypassing the loader. It is intended for
// hosts that build documents themselves and for tests.
func (s *Store) Swap(doc *Document) *Snapshot {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.publish(doc, s.current.Load(), 0)
}

func (s *Store) publish(doc *Document, prev *Snapshot, duration time.Duration) *Snapshot {
	snap := &Snapshot{
		Document: doc,
		Revision: uuid.New().String(),
		LoadedAt: time.Now(),
		Source:   doc.Source(),
	}
	s.current.Store(snap)

	ev := ReloadEvent{Store: s.name, Previous: prev, Current: snap, Duration: duration}
	if prev != nil {
		ev.Added, ev.Modified, ev.Removed = Diff(prev.Document, doc)
	} else {
		ev.Added, _, _ = Diff(nil, doc)
	}

	s.logger.Info("configuration published",
		"revision", snap.Revision,
		"source", snap.Source,
		"added", len(ev.Added),
		"modified", len(ev.Modified),
		"removed", len(ev.Removed),
		"duration_ms", duration.Milliseconds(),
	)

	s.notify(ev)
	return snap
}

func (s *Store) notify(ev ReloadEvent) {
	for _, o := range s.observers {
		o.ObserveReload(ev)
	}
}
