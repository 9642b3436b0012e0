package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"vidlearn-hq/confstore/pkg/config"
)

// SQLiteBackend implements Backend using SQLite for persistence.
//
// SQLiteBackend uses a write-ahead log (WAL) so that readers such as the
// history command do not block a running watcher, and checkpoints the log
// periodically.
type SQLiteBackend struct {
	db                 *sql.DB
	checkpointInterval time.Duration
	done               chan struct{}
	closeOnce          sync.Once

	recordStmt *sql.Stmt
	latestStmt *sql.Stmt
	pruneStmt  *sql.Stmt
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite history backend with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteConfig{DBPath: dbPath})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.DBPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:                 db,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go backend.checkpointLoop()

	return backend, nil
}

func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reload_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store TEXT NOT NULL,
		revision TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		changed TEXT,
		errors TEXT,
		message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_reload_history_store ON reload_history(store, id);
	CREATE INDEX IF NOT EXISTS idx_reload_history_recorded_at ON reload_history(recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

const selectColumns = `id, store, revision, source, status, recorded_at, duration_ns, changed, errors, message`

func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.recordStmt, err = s.db.Prepare(`
		INSERT INTO reload_history (store, revision, source, status, recorded_at, duration_ns, changed, errors, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record statement: %w", err)
	}

	s.latestStmt, err = s.db.Prepare(`
		SELECT ` + selectColumns + `
		FROM reload_history
		WHERE store = ?
		ORDER BY id DESC
		LIMIT 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare latest statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM reload_history
		WHERE recorded_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Record persists entry and assigns its ID.
func (s *SQLiteBackend) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if entry.Store == "" {
		return errors.New("store cannot be empty")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	changedJSON, err := marshalOptional(entry.Changed)
	if err != nil {
		return fmt.Errorf("failed to marshal changed paths: %w", err)
	}
	errorsJSON, err := marshalOptional(entry.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal field errors: %w", err)
	}

	result, err := s.recordStmt.ExecContext(ctx,
		entry.Store,
		entry.Revision,
		entry.Source,
		string(entry.Status),
		entry.RecordedAt.UnixNano(),
		int64(entry.Duration),
		changedJSON,
		errorsJSON,
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns matching entries, newest first.
func (s *SQLiteBackend) List(ctx context.Context, q Query) ([]*Entry, error) {
	var (
		where []string
		args  []any
	)
	if q.Store != "" {
		where = append(where, "store = ?")
		args = append(args, q.Store)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}

	query := "SELECT " + selectColumns + " FROM reload_history"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entries, nil
}

// Latest returns the newest entry for store, or nil when there is none.
func (s *SQLiteBackend) Latest(ctx context.Context, store string) (*Entry, error) {
	entry, err := scanEntry(s.latestStmt.QueryRowContext(ctx, store))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

// Prune removes entries recorded before olderThan.
func (s *SQLiteBackend) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteBackend) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		for _, stmt := range []*sql.Stmt{s.recordStmt, s.latestStmt, s.pruneStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}

		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		closeErr = s.db.Close()
	})

	return closeErr
}

func (s *SQLiteBackend) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		entry       Entry
		status      string
		recordedAt  int64
		durationNS  int64
		changedJSON sql.NullString
		errorsJSON  sql.NullString
	)

	err := row.Scan(
		&entry.ID,
		&entry.Store,
		&entry.Revision,
		&entry.Source,
		&status,
		&recordedAt,
		&durationNS,
		&changedJSON,
		&errorsJSON,
		&entry.Message,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Status = Status(status)
	entry.RecordedAt = time.Unix(0, recordedAt)
	entry.Duration = time.Duration(durationNS)

	if changedJSON.Valid && changedJSON.String != "" {
		if err := json.Unmarshal([]byte(changedJSON.String), &entry.Changed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changed paths: %w", err)
		}
	}
	if errorsJSON.Valid && errorsJSON.String != "" {
		var fieldErrs []config.FieldError
		if err := json.Unmarshal([]byte(errorsJSON.String), &fieldErrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field errors: %w", err)
		}
		entry.Errors = fieldErrs
	}

	return &entry, nil
}

// marshalOptional returns nil for empty slices so the column stays NULL.
func marshalOptional[T any](v []T) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
