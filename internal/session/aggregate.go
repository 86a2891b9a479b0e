package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// ParticipantEntry is one participant's roster as found in the store.
type ParticipantEntry struct {
	ParticipantID string
	People        []models.Person

	// Subtotal is the sum of item prices, before tip.
	Subtotal float64
}

// Summary is the combined view of every participant in a session.
type Summary struct {
	SessionID             string
	Entries               []ParticipantEntry
	GrandTotal            float64
	PerParticipantAverage float64
}

// Aggregator combines the rosters of all participants of one session.
// It only depends on storage.Store, so it works against any backend that
// several participants write to.
type Aggregator struct {
	store     storage.Store
	sessionID string
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	latest Summary
}

// NewAggregator creates an Aggregator. logger and m may be nil.
func NewAggregator(store storage.Store, sessionID string, logger *slog.Logger, m *metrics.Metrics) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Aggregator{
		store:     store,
		sessionID: sessionID,
		logger:    logger.With("component", "aggregator", "session_id", sessionID),
		metrics:   m,
		latest:    Summary{SessionID: sessionID},
	}
}

// Aggregate reads every roster of the session and sums them.
// A roster that fails to decode counts as empty.
func (a *Aggregator) Aggregate(ctx context.Context) (Summary, error) {
	stored, err := a.store.List(ctx, PeoplePrefix(a.sessionID))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list session rosters: %w", err)
	}

	summary := Summary{SessionID: a.sessionID, Entries: []ParticipantEntry{}}
	for _, e := range stored {
		if !belongsToSession(e.Key, a.sessionID) {
			continue
		}
		entry := ParticipantEntry{ParticipantID: participantID(e.Key)}
		if err := json.Unmarshal([]byte(e.Value), &entry.People); err != nil {
			a.logger.Warn("Skipping malformed roster", "key", e.Key, "error", err)
			entry.People = nil
		}
		entry.Subtotal = calculator.RosterSubtotal(entry.People)
		summary.Entries = append(summary.Entries, entry)
	}
	sort.SliceStable(summary.Entries, func(i, j int) bool {
		return summary.Entries[i].ParticipantID < summary.Entries[j].ParticipantID
	})

	totals := make([]calculator.ParticipantTotal, len(summary.Entries))
	for i, e := range summary.Entries {
		totals[i] = calculator.ParticipantTotal{ParticipantID: e.ParticipantID, Subtotal: e.Subtotal}
	}
	s := calculator.SummarizeParticipants(totals)
	summary.GrandTotal = s.GrandTotal
	summary.PerParticipantAverage = s.PerParticipantAverage

	a.metrics.Aggregations.Inc()
	a.metrics.AggregatedParticipants.Set(float64(len(summary.Entries)))
	return summary, nil
}

// Refresh aggregates and caches the result for Latest.
func (a *Aggregator) Refresh(ctx context.Context) (Summary, error) {
	summary, err := a.Aggregate(ctx)
	if err != nil {
		return Summary{}, err
	}
	a.mu.Lock()
	a.latest = summary
	a.mu.Unlock()

	a.logger.Debug("Session aggregated",
		"participants", len(summary.Entries),
		"grand_total", summary.GrandTotal,
	)
	return summary, nil
}

// Latest returns the most recently refreshed summary.
func (a *Aggregator) Latest() Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// Watch refreshes whenever a roster of this session changes in the store and
// passes the new summary to onUpdate. Changes that arrive while a refresh is
// running are coalesced into one more refresh. Watching stops when ctx is
// done or the returned func is called.
func (a *Aggregator) Watch(ctx context.Context, onUpdate func(Summary)) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)
	trigger := make(chan struct{}, 1)

	unsubscribe := a.store.OnChange(func(key string) {
		if !belongsToSession(key, a.sessionID) {
			return
		}
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-trigger:
				summary, err := a.Refresh(ctx)
				if err != nil {
					a.logger.Error("Failed to refresh session", "error", err)
					continue
				}
				if onUpdate != nil {
					onUpdate(summary)
				}
			}
		}
	}()
	return cancel
}
