package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vidlearn-hq/confstore/pkg/config"
)

// ErrNotLoaded is reported before the first snapshot is published.
var ErrNotLoaded = errors.New("configuration has not been loaded")

// ReloadCheck tracks the reload attempts of a config.Store and exposes them
// as a readiness check. Register it as an observer of the store.
type ReloadCheck struct {
	mu          sync.RWMutex
	loaded      bool
	lastErr     error
	lastSuccess time.Time

	// maxAge, when positive, fails the check if no reload succeeded within it.
	maxAge time.Duration
	now    func() time.Time
}

// NewReloadCheck creates a reload check. A positive maxAge also fails the
// check when the last successful reload is older than maxAge.
func NewReloadCheck(maxAge time.Duration) *ReloadCheck {
	return &ReloadCheck{
		maxAge: maxAge,
		now:    time.Now,
	}
}

// ObserveReload implements config.Observer.
func (r *ReloadCheck) ObserveReload(ev config.ReloadEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Err != nil {
		r.lastErr = ev.Err
		return
	}
	r.loaded = true
	r.lastErr = nil
	r.lastSuccess = r.now()
	if ev.Current != nil {
		r.lastSuccess = ev.Current.LoadedAt
	}
}

// Check implements CheckFunc.
func (r *ReloadCheck) Check(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch {
	case !r.loaded && r.lastErr != nil:
		return fmt.Errorf("%w: %v", ErrNotLoaded, r.lastErr)
	case !r.loaded:
		return ErrNotLoaded
	case r.lastErr != nil:
		return fmt.Errorf("last reload rejected, serving previous snapshot: %w", r.lastErr)
	case r.maxAge > 0 && r.now().Sub(r.lastSuccess) > r.maxAge:
		return fmt.Errorf("no successful reload since %s", r.lastSuccess.Format(time.RFC3339))
	}
	return nil
}
