package history

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"vidlearn-hq/confstore/pkg/config"
)

// backendFactories runs each test against every backend.
func backendFactories(t *testing.T) map[string]func() Backend {
	t.Helper()
	return map[string]func() Backend{
		"memory": func() Backend { return NewMemoryBackend(0) },
		"sqlite": func() Backend {
			backend, err := NewSQLiteBackendWithConfig(SQLiteConfig{
				DBPath:             filepath.Join(t.TempDir(), "history.db"),
				CheckpointInterval: time.Hour,
			})
			if err != nil {
				t.Fatalf("failed to create SQLite backend: %v", err)
			}
			return backend
		},
	}
}

func TestBackend_RecordAndList(t *testing.T) {
	for name, newBackend := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			backend := newBackend()
			defer backend.Close()
			ctx := context.Background()

			base := time.Now().Add(-time.Minute).Truncate(time.Millisecond)
			entries := []*Entry{
				{Store: "gui", Revision: "r1", Source: "gui.yaml", Status: StatusApplied,
					RecordedAt: base, Changed: []string{"threading.max_worker_threads"}},
				{Store: "translation", Revision: "r2", Status: StatusApplied, RecordedAt: base.Add(time.Second)},
				{Store: "gui", Status: StatusRejected, RecordedAt: base.Add(2 * time.Second),
					Message: "validation failed", Duration: 3 * time.Millisecond,
					Errors: []config.FieldError{{Field: "threading.max_worker_threads", Code: config.CodeOutOfRange, Message: "value 99 is outside [1, 64]"}}},
			}
			for _, e := range entries {
				if err := backend.Record(ctx, e); err != nil {
					t.Fatalf("Record() error: %v", err)
				}
				if e.ID == 0 {
					t.Error("Record() did not assign an ID")
				}
			}

			all, err := backend.List(ctx, Query{})
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(all) != 3 || all[0].ID != entries[2].ID {
				t.Fatalf("List() returned %d entries, want 3 newest first", len(all))
			}

			gui, _ := backend.List(ctx, Query{Store: "gui"})
			if len(gui) != 2 {
				t.Errorf("List(store=gui) = %d entries, want 2", len(gui))
			}
			rejected, _ := backend.List(ctx, Query{Status: StatusRejected})
			if len(rejected) != 1 {
				t.Fatalf("List(status=rejected) = %d entries, want 1", len(rejected))
			}
			got := rejected[0]
			if got.Message != "validation failed" || got.Duration != 3*time.Millisecond {
				t.Errorf("rejected entry = %+v", got)
			}
			if !reflect.DeepEqual(got.Errors, entries[2].Errors) {
				t.Errorf("Errors = %+v, want %+v", got.Errors, entries[2].Errors)
			}
			if !got.RecordedAt.Equal(entries[2].RecordedAt) {
				t.Errorf("RecordedAt = %v, want %v", got.RecordedAt, entries[2].RecordedAt)
			}

			limited, _ := backend.List(ctx, Query{Limit: 1})
			if len(limited) != 1 {
				t.Errorf("List(limit=1) = %d entries", len(limited))
			}

			latest, err := backend.Latest(ctx, "gui")
			if err != nil || latest == nil || latest.Status != StatusRejected {
				t.Errorf("Latest(gui) = %+v, %v", latest, err)
			}
			first, _ := backend.List(ctx, Query{Store: "gui", Status: StatusApplied})
			if len(first) != 1 || !reflect.DeepEqual(first[0].Changed, []string{"threading.max_worker_threads"}) {
				t.Errorf("applied gui entries = %+v", first)
			}

			none, err := backend.Latest(ctx, "unknown")
			if err != nil || none != nil {
				t.Errorf("Latest(unknown) = %+v, %v; want nil, nil", none, err)
			}
		})
	}
}

func TestBackend_RecordValidation(t *testing.T) {
	for name, newBackend := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			backend := newBackend()
			defer backend.Close()

			if err := backend.Record(context.Background(), nil); err == nil {
				t.Error("Record(nil) should fail")
			}
			if err := backend.Record(context.Background(), &Entry{Status: StatusApplied}); err == nil {
				t.Error("Record() without store should fail")
			}
		})
	}
}

func TestBackend_Prune(t *testing.T) {
	for name, newBackend := range backendFactories(t) {
		t.Run(name, func(t *testing.T) {
			backend := newBackend()
			defer backend.Close()
			ctx := context.Background()

			now := time.Now()
			for _, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour} {
				if err := backend.Record(ctx, &Entry{Store: "gui", Status: StatusApplied, RecordedAt: now.Add(-age)}); err != nil {
					t.Fatal(err)
				}
			}

			deleted, err := backend.Prune(ctx, now.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("Prune() error: %v", err)
			}
			if deleted != 2 {
				t.Errorf("Prune() deleted %d, want 2", deleted)
			}
			remaining, _ := backend.List(ctx, Query{})
			if len(remaining) != 1 {
				t.Errorf("%d entries remain, want 1", len(remaining))
			}
		})
	}
}

func TestMemoryBackend_Eviction(t *testing.T) {
	backend := NewMemoryBackend(2)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := backend.Record(ctx, &Entry{Store: "gui", Status: StatusApplied}); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := backend.List(ctx, Query{})
	if len(entries) != 2 || entries[0].ID != 3 || entries[1].ID != 2 {
		t.Errorf("entries after eviction = %+v", entries)
	}
}

func TestSQLiteBackend_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Record(ctx, &Entry{Store: "gui", Revision: "r1", Status: StatusApplied}); err != nil {
		t.Fatal(err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	reopened, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	latest, err := reopened.Latest(ctx, "gui")
	if err != nil || latest == nil || latest.Revision != "r1" {
		t.Errorf("Latest() after reopen = %+v, %v", latest, err)
	}

	if _, err := NewSQLiteBackend(""); err == nil {
		t.Error("NewSQLiteBackend(\"\") should fail")
	}
}
