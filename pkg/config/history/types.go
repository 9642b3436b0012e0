package history

import (
	"context"
	"time"

	"vidlearn-hq/confstore/pkg/config"
)

// Status is the outcome of a reload attempt.
type Status string

const (
	// StatusApplied marks a reload that published a new snapshot.
	StatusApplied Status = "applied"

	// StatusRejected marks a reload that failed and left the previous snapshot active.
	StatusRejected Status = "rejected"
)

// Entry is one recorded reload attempt.
type Entry struct {
	// ID is assigned by the backend on Record.
	ID int64 `json:"id"`

	// Store is the name of the store that reloaded.
	Store string `json:"store"`

	// Revision is the published revision; empty for rejected reloads.
	Revision string `json:"revision,omitempty"`

	// Source names the files the document was loaded from.
	Source string `json:"source,omitempty"`

	Status Status `json:"status"`

	// RecordedAt is when the attempt finished.
	RecordedAt time.Time `json:"recorded_at"`

	// Duration is how long loading and validation took.
	Duration time.Duration `json:"duration"`

	// Changed lists the leaf paths that were added, modified or removed.
	Changed []string `json:"changed,omitempty"`

	// Errors holds the field violations of a rejected reload.
	Errors []config.FieldError `json:"errors,omitempty"`

	// Message is the error text of a rejected reload.
	Message string `json:"message,omitempty"`
}

// Query filters List results.
type Query struct {
	// Store restricts results to one store. Empty matches all stores.
	Store string

	// Status restricts results to one outcome. Empty matches both.
	Status Status

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

func (q Query) matches(e *Entry) bool {
	if q.Store != "" && e.Store != q.Store {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	return true
}

// Backend defines the interface for reload history persistence.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Record persists an entry and assigns its ID.
	Record(ctx context.Context, entry *Entry) error

	// List returns matching entries, newest first.
	List(ctx context.Context, q Query) ([]*Entry, error)

	// Latest returns the newest entry for store, or nil when there is none.
	Latest(ctx context.Context, store string) (*Entry, error)

	// Prune removes entries recorded before olderThan and returns how many
	// were deleted.
	Prune(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the backend.
	// The backend should not be used after calling Close.
	Close() error
}
