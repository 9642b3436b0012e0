package history

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vidlearn-hq/confstore/pkg/config"
)

// recordTimeout bounds how long a reload waits on the history backend.
const recordTimeout = 5 * time.Second

// Recorder writes every reload attempt of a store to a Backend. It
// implements config.Observer.
type Recorder struct {
	backend Backend
	logger  *slog.Logger
}

// NewRecorder creates a recorder that writes to backend.
func NewRecorder(backend Backend, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		backend: backend,
		logger:  logger.With("component", "config.history"),
	}
}

// ObserveReload records ev. Backend failures are logged and never affect
// the reload itself.
func (r *Recorder) ObserveReload(ev config.ReloadEvent) {
	entry := EntryFromEvent(ev)

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.backend.Record(ctx, entry); err != nil {
		r.logger.Warn("failed to record reload history",
			"store", entry.Store,
			"status", entry.Status,
			"error", err,
		)
	}
}

// EntryFromEvent converts a reload event into a history entry.
func EntryFromEvent(ev config.ReloadEvent) *Entry {
	entry := &Entry{
		Store:      ev.Store,
		RecordedAt: time.Now(),
		Duration:   ev.Duration,
	}

	if ev.Err != nil {
		entry.Status = StatusRejected
		entry.Message = ev.Err.Error()
		var verr *config.ValidationError
		if errors.As(ev.Err, &verr) {
			entry.Errors = verr.Errors
		}
		return entry
	}

	entry.Status = StatusApplied
	if ev.Current != nil {
		entry.Revision = ev.Current.Revision
		entry.Source = ev.Current.Source
		entry.RecordedAt = ev.Current.LoadedAt
	}
	entry.Changed = make([]string, 0, len(ev.Added)+len(ev.Modified)+len(ev.Removed))
	entry.Changed = append(entry.Changed, ev.Added...)
	entry.Changed = append(entry.Changed, ev.Modified...)
	entry.Changed = append(entry.Changed, ev.Removed...)
	return entry
}

// PruneJob returns a job for watch.Scheduler that deletes entries older
// than retention.
func PruneJob(backend Backend, retention time.Duration, logger *slog.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		deleted, err := backend.Prune(ctx, time.Now().Add(-retention))
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.Info("pruned reload history", "deleted_count", deleted)
		}
		return nil
	}
}
