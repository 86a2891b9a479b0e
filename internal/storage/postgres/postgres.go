// Package postgres provides a PostgreSQL-backed implementation of storage.Store,
// for running the aggregator against a shared server-side store.
package postgres

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mmynk/tipsplitter/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DefaultPollInterval is how often other writers are checked for once
// something subscribes to changes.
const DefaultPollInterval = time.Second

// Store implements storage.Store on a PostgreSQL table.
// Writes made through this Store are reported at once; writes by other
// clients are found by polling md5(value) per key.
type Store struct {
	storage.Notifier

	db     *sql.DB
	poller *storage.Poller
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

// New connects to dsn, verifies the connection and creates the table.
func New(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	o := options{pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Store{db: db}
	s.poller = &storage.Poller{
		Interval: o.pollInterval,
		Load:     s.snapshot,
		Notify:   s.Notify,
		Logger:   slog.Default().With("component", "postgres"),
	}
	return s, nil
}

func (s *Store) Close() error {
	s.poller.Stop()
	return s.db.Close()
}

// OnChange registers fn for changed keys and starts polling for other
// writers. If polling cannot start, fn still sees this Store's own writes.
func (s *Store) OnChange(fn func(key string)) (cancel func()) {
	cancel = s.Notifier.OnChange(fn)
	if err := s.poller.Start(); err != nil {
		slog.Warn("Cannot watch database for external changes", "error", err)
	}
	return cancel
}

func (s *Store) snapshot(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, md5(value) FROM kv")
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot keys: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]string)
	for rows.Next() {
		var key, sum string
		if err := rows.Scan(&key, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		seen[key] = sum
	}
	return seen, rows.Err()
}

// fingerprint matches what md5(value) returns in PostgreSQL.
func fingerprint(value string) string {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key, value string) error {
	err := s.poller.Write(key, fingerprint(value), func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			key, value,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	s.Notify(key)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.poller.Delete(key, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = $1", key)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.Notify(key)
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE substr(key, 1, length($1)) = $1 ORDER BY key COLLATE "C"`,
		prefix,
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
