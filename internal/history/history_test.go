package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
	"github.com/mmynk/tipsplitter/internal/storage/memory"
)

var errDiskFull = errors.New("disk full")

// failingStore rejects every write.
type failingStore struct {
	*memory.Store
}

func (failingStore) Put(context.Context, string, string) error { return errDiskFull }
func (failingStore) Delete(context.Context, string) error      { return errDiskFull }

func entry(bill float64, tip, people int) models.HistoryEntry {
	return models.HistoryEntry{
		Timestamp:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Bill:       bill,
		Currency:   models.CurrencyUSD,
		TipPercent: tip,
		NumPeople:  people,
	}
}

func TestRecord_DeduplicatesHead(t *testing.T) {
	ctx := context.Background()
	l := Load(ctx, memory.New(), nil, nil)

	assert.Equal(t, OutcomeAppended, l.Record(ctx, entry(100, 15, 2)))
	assert.Equal(t, OutcomeDuplicate, l.Record(ctx, entry(100, 15, 2)))
	require.Equal(t, 1, l.Len())

	assert.Equal(t, OutcomeAppended, l.Record(ctx, entry(80, 15, 2)))
	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 80.0, entries[0].Bill)
	assert.Equal(t, 100.0, entries[1].Bill)
}

func TestRecord_OnlyComparesAgainstHead(t *testing.T) {
	ctx := context.Background()
	l := Load(ctx, memory.New(), nil, nil)

	l.Record(ctx, entry(100, 15, 2))
	l.Record(ctx, entry(100, 20, 2))
	l.Record(ctx, entry(100, 15, 2))

	assert.Equal(t, 3, l.Len())
}

func TestRecord_CurrencyDoesNotDefeatDedup(t *testing.T) {
	ctx := context.Background()
	l := Load(ctx, memory.New(), nil, nil)

	first := entry(40, 10, 4)
	second := entry(40, 10, 4)
	second.Currency = models.CurrencyEUR

	l.Record(ctx, first)
	assert.Equal(t, OutcomeDuplicate, l.Record(ctx, second))
}

func TestRecord_CapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	l := Load(ctx, memory.New(), nil, nil)

	for i := 1; i <= 6; i++ {
		l.Record(ctx, entry(float64(i*10), 15, 2))
	}

	entries := l.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, 60.0, entries[0].Bill)
	assert.Equal(t, 20.0, entries[MaxEntries-1].Bill, "oldest entry should be evicted")
}

func TestRecord_IgnoresNonPositiveBill(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := Load(ctx, store, nil, nil)

	assert.Equal(t, OutcomeIgnored, l.Record(ctx, entry(0, 15, 2)))
	assert.Equal(t, OutcomeIgnored, l.Record(ctx, entry(-5, 15, 2)))
	assert.Zero(t, l.Len())

	_, err := store.Get(ctx, storage.KeyHistory)
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing should be persisted")
}

func TestLoad_RoundTripsPersistedHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	l := Load(ctx, store, nil, nil)
	l.Record(ctx, entry(100, 20, 4))
	l.Record(ctx, entry(55, 10, 2))

	reloaded := Load(ctx, store, nil, nil)
	entries := reloaded.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 55.0, entries[0].Bill)
	assert.Equal(t, 20, entries[1].TipPercent)
	assert.Equal(t, 4, entries[1].NumPeople)
	assert.True(t, entries[1].Timestamp.Equal(entry(0, 0, 0).Timestamp))
}

func TestLoad_MalformedPayloadYieldsEmptyLog(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.KeyHistory, "{not json"))

	l := Load(ctx, store, nil, nil)
	assert.Zero(t, l.Len())

	// The log stays usable and overwrites the bad payload.
	l.Record(ctx, entry(10, 15, 2))
	assert.Equal(t, 1, Load(ctx, store, nil, nil).Len())
}

func TestLoad_TruncatesOversizedPayload(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.KeyHistory,
		`[{"bill":1},{"bill":2},{"bill":3},{"bill":4},{"bill":5},{"bill":6},{"bill":7}]`))

	l := Load(ctx, store, nil, nil)
	assert.Equal(t, MaxEntries, l.Len())
	assert.Equal(t, 1.0, l.Entries()[0].Bill)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := Load(ctx, store, nil, nil)
	l.Record(ctx, entry(100, 15, 2))

	l.Clear(ctx)

	assert.Zero(t, l.Len())
	_, err := store.Get(ctx, storage.KeyHistory)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(nil)
	l := Load(ctx, failingStore{memory.New()}, nil, m)

	assert.Equal(t, OutcomeAppended, l.Record(ctx, entry(100, 15, 2)))
	l.Record(ctx, entry(90, 15, 2))
	assert.Equal(t, 2, l.Len())

	l.Clear(ctx)
	assert.Zero(t, l.Len())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("history")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryRecords.WithLabelValues(string(OutcomeAppended))))
}
