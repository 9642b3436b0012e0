// Package history records every configuration reload attempt.
//
// # Overview
//
// A Recorder is registered as an observer on a config.Store. Each reload,
// applied or rejected, becomes an Entry in a Backend:
//
//   - Memory: in-process ring of recent entries (default, no persistence)
//   - SQLite: file-based persistence that survives restarts
//
// # Usage
//
//	backend, err := history.NewSQLiteBackend("confstore.db")
//	recorder := history.NewRecorder(backend, logger)
//	store := config.NewStore("gui", loader, config.WithObserver(recorder))
//
//	// Later
//	entries, err := backend.List(ctx, history.Query{Store: "gui", Limit: 10})
//
// # Thread Safety
//
// All backends are safe for concurrent use.
package history
