package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/history"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// SplitState is the even-split input as entered plus its derived totals.
type SplitState struct {
	// BillText is the bill field as typed, after input filtering.
	BillText string
	Input    models.EvenSplitInput
	Currency models.Currency
	Totals   models.EvenSplitTotals
}

// SplitOptions configures a SplitService. Zero values select the defaults.
type SplitOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// TipPercent is the starting tip rate; nil selects the default. A
	// pointer keeps an explicit 0% distinct from "unset".
	TipPercent *int
	NumPeople  int
	Currency   models.Currency

	// Now is the clock used for history timestamps.
	Now func() time.Time
}

// SplitService holds the even-split calculator state. Each change
// recomputes the totals, notifies listeners and offers the result to the
// history log.
type SplitService struct {
	store   storage.Store
	history *history.Log
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.Mutex
	state     SplitState
	listeners []func(SplitState)
}

// NewSplitService creates a SplitService. The stored currency preference,
// when present and valid, overrides opts.Currency.
func NewSplitService(ctx context.Context, store storage.Store, hist *history.Log, opts SplitOptions) *SplitService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &SplitService{
		store:   store,
		history: hist,
		logger:  logger.With("component", "split"),
		metrics: m,
		now:     now,
	}

	tip := calculator.DefaultTipPercent
	if opts.TipPercent != nil {
		tip = calculator.ClampTipPercent(*opts.TipPercent)
	}
	people := calculator.DefaultNumPeople
	if opts.NumPeople != 0 {
		people = max(opts.NumPeople, calculator.MinNumPeople)
	}
	currency := opts.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if stored, ok := s.storedCurrency(ctx); ok {
		currency = stored
	}

	s.state = SplitState{
		Input:    models.EvenSplitInput{TipPercent: tip, NumPeople: people},
		Currency: currency,
	}
	s.state.Totals = calculator.ComputeEvenSplit(s.state.Input)
	return s
}

func (s *SplitService) storedCurrency(ctx context.Context) (models.Currency, bool) {
	raw, err := s.store.Get(ctx, storage.KeyCurrency)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("Failed to read currency preference", "error", err)
		}
		return "", false
	}
	c, err := models.ParseCurrency(raw)
	if err != nil {
		s.logger.Warn("Ignoring stored currency", "value", raw, "error", err)
		return "", false
	}
	return c, true
}

// OnTotalsChanged registers fn to receive the state after every change.
func (s *SplitService) OnTotalsChanged(fn func(SplitState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current input and totals.
func (s *SplitService) State() SplitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetBill applies typed bill text. Characters other than digits and '.' are
// dropped; an edit that would leave two '.' is rejected and the bill keeps
// its previous text.
func (s *SplitService) SetBill(ctx context.Context, text string) SplitState {
	return s.update(ctx, func(st *SplitState) {
		st.BillText = calculator.SanitizeAmountInput(st.BillText, text)
		st.Input.Bill = calculator.ParseLenientDecimal(st.BillText)
	})
}

// SetTipPercent sets the tip rate, clamped to 0..30.
func (s *SplitService) SetTipPercent(ctx context.Context, percent int) SplitState {
	return s.update(ctx, func(st *SplitState) {
		st.Input.TipPercent = calculator.ClampTipPercent(percent)
	})
}

// IncrementPeople adds one person.
func (s *SplitService) IncrementPeople(ctx context.Context) SplitState {
	return s.update(ctx, func(st *SplitState) {
		st.Input.NumPeople++
	})
}

// DecrementPeople removes one person, never going below one.
func (s *SplitService) DecrementPeople(ctx context.Context) SplitState {
	return s.update(ctx, func(st *SplitState) {
		st.Input.NumPeople = max(st.Input.NumPeople-1, calculator.MinNumPeople)
	})
}

// SetPeople sets the head count, at least one.
func (s *SplitService) SetPeople(ctx context.Context, n int) SplitState {
	return s.update(ctx, func(st *SplitState) {
		st.Input.NumPeople = max(n, calculator.MinNumPeople)
	})
}

// SetCurrency changes the display currency and stores it as the preference.
func (s *SplitService) SetCurrency(ctx context.Context, c models.Currency) SplitState {
	state := s.update(ctx, func(st *SplitState) {
		st.Currency = c
	})
	if err := s.store.Put(ctx, storage.KeyCurrency, string(c)); err != nil {
		s.metrics.PersistFailures.WithLabelValues("currency").Inc()
		s.logger.Error("Failed to persist currency", "currency", c, "error", err)
	}
	return state
}

func (s *SplitService) update(ctx context.Context, mutate func(*SplitState)) SplitState {
	s.mu.Lock()
	mutate(&s.state)
	s.state.Totals = calculator.ComputeEvenSplit(s.state.Input)
	state := s.state
	listeners := append(([]func(SplitState))(nil), s.listeners...)
	s.mu.Unlock()

	s.metrics.Recomputations.WithLabelValues(metrics.ModeEven).Inc()
	for _, fn := range listeners {
		fn(state)
	}

	if s.history != nil {
		entry := models.NewHistoryEntry(state.Input, state.Totals, state.Currency, s.now())
		s.history.Record(ctx, entry)
	}
	return state
}
