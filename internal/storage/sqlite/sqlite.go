// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tipsplitter/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DefaultPollInterval is how often a file-backed Store looks for writes
// made by other processes once something subscribes to changes.
const DefaultPollInterval = time.Second

// Store implements storage.Store using SQLite.
//
// OnChange reports writes made through this Store immediately. Writes made
// by other connections to the same file are picked up by polling
// PRAGMA data_version and diffing the table.
type Store struct {
	storage.Notifier

	db     *sql.DB
	poller *storage.Poller

	// dataVersion is only touched by the poller, under its lock.
	dataVersion int64
}

// Option configures a Store.
type Option func(*options)

type options struct {
	pollInterval time.Duration
}

// WithPollInterval sets how often other writers are checked for. Zero or
// less disables it.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// New creates a new Store with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string, opts ...Option) (*Store, error) {
	o := options{pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if dbPath == MemoryPath {
		// nobody else can see a private in-memory database
		o.pollInterval = 0
	}

	if dbPath != MemoryPath {
		// Create parent directory if it doesn't exist
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// exists per connection.
	db.SetMaxOpenConns(1)

	if dbPath != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{db: db}
	s.poller = &storage.Poller{
		Interval: o.pollInterval,
		Changed:  s.changedElsewhere,
		Load:     s.snapshot,
		Notify:   s.Notify,
		Logger:   slog.Default().With("component", "sqlite"),
	}
	return s, nil
}

// Close stops polling and closes the database connection.
func (s *Store) Close() error {
	s.poller.Stop()
	return s.db.Close()
}

// OnChange registers fn for changed keys and starts watching for other
// writers. If that cannot start, fn still sees this Store's own writes.
func (s *Store) OnChange(fn func(key string)) (cancel func()) {
	cancel = s.Notifier.OnChange(fn)
	if err := s.poller.Start(); err != nil {
		slog.Warn("Cannot watch database for external changes", "error", err)
	}
	return cancel
}

// changedElsewhere reports whether another connection committed since the
// last call. Commits on this Store's own connection leave data_version
// unchanged.
func (s *Store) changedElsewhere(ctx context.Context) (bool, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return false, fmt.Errorf("failed to read data_version: %w", err)
	}
	changed := v != s.dataVersion
	s.dataVersion = v
	return changed, nil
}

// snapshot fingerprints every key by its value.
func (s *Store) snapshot(ctx context.Context) (map[string]string, error) {
	entries, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		seen[e.Key] = e.Value
	}
	return seen, nil
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put upserts value under key. The last write wins.
func (s *Store) Put(ctx context.Context, key, value string) error {
	err := s.poller.Write(key, value, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, time.Now().UnixMilli(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	s.Notify(key)
	return nil
}

// Delete removes key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.poller.Delete(key, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.Notify(key)
	return nil
}

// List returns all entries whose key starts with prefix, ordered by key.
// The prefix is compared literally; '_' and '%' carry no LIKE meaning here.
func (s *Store) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM kv WHERE substr(key, 1, length(?)) = ? ORDER BY key",
		prefix, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	defer rows.Close()

	var entries []storage.Entry
	for rows.Next() {
		var e storage.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}
