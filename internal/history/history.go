// Package history keeps the short log of recent even-split calculations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// MaxEntries is how many calculations the log retains.
const MaxEntries = 5

// Outcome describes what Record did with an entry.
type Outcome string

const (
	OutcomeAppended  Outcome = "appended"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// Log is the in-memory history, most recent first, mirrored to the
// storage.KeyHistory key. The in-memory list is authoritative: a failed
// write is logged and the next successful write catches the store up.
type Log struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries []models.HistoryEntry
}

// Load reads the persisted history. A missing key yields an empty log; an
// unreadable or malformed payload is logged and also yields an empty log.
func Load(ctx context.Context, store storage.Store, logger *slog.Logger, m *metrics.Metrics) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	l := &Log{
		store:   store,
		logger:  logger.With("component", "history"),
		metrics: m,
	}

	raw, err := store.Get(ctx, storage.KeyHistory)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return l
	case err != nil:
		l.logger.Error("Failed to read history", "error", err)
		return l
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.Error("Error parsing history", "error", err)
		return l
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.entries = entries
	return l
}

// Record prepends entry unless its bill is not positive or it repeats the
// most recent entry's bill, tip and head count. The log keeps MaxEntries.
func (l *Log) Record(ctx context.Context, entry models.HistoryEntry) Outcome {
	l.mu.Lock()
	outcome := l.recordLocked(entry)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.metrics.HistoryRecords.WithLabelValues(string(outcome)).Inc()
	if outcome == OutcomeAppended {
		l.logger.Debug("History entry recorded",
			"bill", entry.Bill,
			"tip_percent", entry.TipPercent,
			"num_people", entry.NumPeople,
			"entries", len(snapshot),
		)
		l.persist(ctx, snapshot)
	}
	return outcome
}

func (l *Log) recordLocked(entry models.HistoryEntry) Outcome {
	if entry.Bill <= 0 {
		return OutcomeIgnored
	}
	if len(l.entries) > 0 && l.entries[0].SameCalculation(entry) {
		return OutcomeDuplicate
	}

	next := make([]models.HistoryEntry, 0, MaxEntries)
	next = append(next, entry)
	next = append(next, l.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	l.entries = next
	return OutcomeAppended
}

// Clear empties the log and removes its persisted copy.
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if err := l.store.Delete(ctx, storage.KeyHistory); err != nil {
		l.metrics.PersistFailures.WithLabelValues("history").Inc()
		l.logger.Error("Failed to clear persisted history", "error", err)
		return
	}
	l.logger.Info("History cleared")
}

// Entries returns a copy of the log, most recent first.
func (l *Log) Entries() []models.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) snapshotLocked() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) persist(ctx context.Context, entries []models.HistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		l.logger.Error("Failed to encode history", "error", err)
		return
	}
	if err := l.store.Put(ctx, storage.KeyHistory, string(data)); err != nil {
		l.metrics.PersistFailures.WithLabelValues("history").Inc()
		l.logger.Error("Failed to persist history", "error", err)
	}
}
