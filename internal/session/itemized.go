package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// Options configures an ItemizedSession.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// OnTotalChange receives the grand total after every recomputation.
	OnTotalChange func(grandTotal float64)
}

// ItemizedSession is one participant's itemized bill within a session.
// Every mutation recomputes the totals, reports the grand total and writes
// the roster and tip rate back to the store. Mutations may run concurrently;
// the store always ends up with the state of the latest one.
type ItemizedSession struct {
	store         storage.Store
	sessionID     string
	participantID string
	logger        *slog.Logger
	metrics       *metrics.Metrics
	onTotalChange func(float64)

	mu            sync.Mutex
	people        []models.Person
	tipPercent    int
	expectedTotal string
	totals        calculator.ItemizedTotals
	version       uint64 // bumped by every recomputation

	saveMu sync.Mutex
	saved  uint64 // version of the last state handed to the store
}

// OpenItemized loads the roster and tip rate stored for the participant.
// Missing or malformed data starts a fresh one-person roster at the default
// tip rate. A failed read starts fresh as well, but nothing is written back
// until the first mutation, so the stored data survives a transient error.
func OpenItemized(ctx context.Context, store storage.Store, sessionID, participantID string, opts Options) (*ItemizedSession, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := ValidateParticipantID(participantID); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	s := &ItemizedSession{
		store:         store,
		sessionID:     sessionID,
		participantID: participantID,
		logger:        logger.With("component", "itemized", "session_id", sessionID, "participant_id", participantID),
		metrics:       m,
		onTotalChange: opts.OnTotalChange,
		tipPercent:    calculator.DefaultTipPercent,
	}
	people, peopleOK := s.loadPeople(ctx)
	tip, tipOK := s.loadTip(ctx)
	s.people = EnsureRoster(people)
	s.tipPercent = tip

	s.logger.Debug("Opened itemized session", "people", len(s.people), "tip_percent", s.tipPercent)
	save := peopleOK && tipOK
	if !save {
		s.logger.Warn("Not saving session until it changes, stored data could not be read")
	}
	s.recompute(ctx, func() {}, save)
	return s, nil
}

// loadPeople returns the stored roster. ok is false only when the store
// could not be read; a missing or malformed roster yields nil with ok true.
func (s *ItemizedSession) loadPeople(ctx context.Context) (people []models.Person, ok bool) {
	raw, err := s.store.Get(ctx, PeopleKey(s.sessionID, s.participantID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		s.logger.Error("Failed to read roster", "error", err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &people); err != nil {
		s.logger.Error("Error parsing roster", "error", err)
		return nil, true
	}
	return people, true
}

// loadTip is loadPeople for the session's tip rate.
func (s *ItemizedSession) loadTip(ctx context.Context) (tip int, ok bool) {
	raw, err := s.store.Get(ctx, TipKey(s.sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return calculator.DefaultTipPercent, true
	}
	if err != nil {
		s.logger.Error("Failed to read tip rate", "error", err)
		return calculator.DefaultTipPercent, false
	}
	tip, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Error("Error parsing tip rate", "error", err, "value", raw)
		return calculator.DefaultTipPercent, true
	}
	return calculator.ClampTipPercent(tip), true
}

// SessionID returns the session this roster belongs to.
func (s *ItemizedSession) SessionID() string { return s.sessionID }

// ParticipantID returns the participant, or "" for the session owner.
func (s *ItemizedSession) ParticipantID() string { return s.participantID }

// AddPerson appends a person and returns it.
func (s *ItemizedSession) AddPerson(ctx context.Context, name string) models.Person {
	p := NewPerson(name)
	s.apply(ctx, func() { s.people = AddPerson(s.people, p) })
	return p
}

// RemovePerson removes a person. The last person stays.
func (s *ItemizedSession) RemovePerson(ctx context.Context, id models.ID) {
	s.apply(ctx, func() { s.people = RemovePerson(s.people, id) })
}

func (s *ItemizedSession) RenamePerson(ctx context.Context, id models.ID, name string) {
	s.apply(ctx, func() { s.people = RenamePerson(s.people, id, name) })
}

// AddItem appends an item to a person and returns it.
func (s *ItemizedSession) AddItem(ctx context.Context, personID models.ID, description, price string) models.Item {
	item := NewItem(description, calculator.SanitizeAmountInput("", price))
	s.apply(ctx, func() { s.people = AddItem(s.people, personID, item) })
	return item
}

func (s *ItemizedSession) RemoveItem(ctx context.Context, personID, itemID models.ID) {
	s.apply(ctx, func() { s.people = RemoveItem(s.people, personID, itemID) })
}

// UpdateItem sets one field of an item. Prices go through the amount
// input filter against the current price.
func (s *ItemizedSession) UpdateItem(ctx context.Context, personID, itemID models.ID, field models.ItemField, value string) {
	s.apply(ctx, func() {
		if field == models.ItemFieldPrice {
			value = calculator.SanitizeAmountInput(s.currentPrice(personID, itemID), value)
		}
		s.people = UpdateItem(s.people, personID, itemID, field, value)
	})
}

func (s *ItemizedSession) currentPrice(personID, itemID models.ID) string {
	p, ok := FindPerson(s.people, personID)
	if !ok {
		return ""
	}
	for _, it := range p.Items {
		if it.ID == itemID {
			return it.Price
		}
	}
	return ""
}

// SetTipPercent sets the shared tip rate, clamped to the slider range.
func (s *ItemizedSession) SetTipPercent(ctx context.Context, percent int) {
	s.apply(ctx, func() { s.tipPercent = calculator.ClampTipPercent(percent) })
}

// SetExpectedTotal sets the receipt total used for the mismatch check.
// The expected total is not persisted.
func (s *ItemizedSession) SetExpectedTotal(ctx context.Context, text string) {
	s.apply(ctx, func() {
		s.expectedTotal = calculator.SanitizeAmountInput(s.expectedTotal, text)
	})
}

// Totals returns the result of the latest recomputation.
func (s *ItemizedSession) Totals() calculator.ItemizedTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.totals
	t.People = append([]calculator.PersonSplit(nil), s.totals.People...)
	return t
}

// People returns a copy of the roster.
func (s *ItemizedSession) People() []models.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ClonePeople(s.people)
}

func (s *ItemizedSession) TipPercent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tipPercent
}

func (s *ItemizedSession) ExpectedTotal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expectedTotal
}

// apply runs mutate under the lock, then recomputes, notifies and persists.
func (s *ItemizedSession) apply(ctx context.Context, mutate func()) {
	s.recompute(ctx, mutate, true)
}

func (s *ItemizedSession) recompute(ctx context.Context, mutate func(), save bool) {
	s.mu.Lock()
	mutate()
	s.totals = calculator.ComputeItemized(s.people, s.tipPercent, s.expectedTotal)
	s.version++
	version := s.version
	totals := s.totals
	people := ClonePeople(s.people)
	tip := s.tipPercent
	s.mu.Unlock()

	s.metrics.Recomputations.WithLabelValues(metrics.ModeItemized).Inc()
	if totals.Mismatch {
		s.metrics.Mismatches.Inc()
		s.logger.Debug("Itemized subtotal differs from expected total",
			"subtotal", totals.Subtotal,
			"expected", totals.Expected,
			"difference", totals.Difference,
		)
	}

	if s.onTotalChange != nil {
		s.onTotalChange(totals.GrandTotal)
	}

	if save {
		s.save(ctx, version, people, tip)
	}
}

// save writes one recomputed state. A state older than one already written
// is dropped, so concurrent mutations cannot leave a stale roster behind.
func (s *ItemizedSession) save(ctx context.Context, version uint64, people []models.Person, tip int) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version <= s.saved {
		return
	}
	s.saved = version
	if err := s.persist(ctx, people, tip); err != nil {
		s.metrics.PersistFailures.WithLabelValues("session").Inc()
		s.logger.Error("Failed to persist itemized session", "error", err)
	}
}

func (s *ItemizedSession) persist(ctx context.Context, people []models.Person, tip int) error {
	data, err := json.Marshal(people)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := s.store.Put(ctx, PeopleKey(s.sessionID, s.participantID), string(data)); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	if err := s.store.Put(ctx, TipKey(s.sessionID), strconv.Itoa(tip)); err != nil {
		return fmt.Errorf("failed to save tip rate: %w", err)
	}
	return nil
}
