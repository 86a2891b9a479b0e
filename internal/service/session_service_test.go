package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
	"github.com/mmynk/tipsplitter/internal/storage"
)

func setupSessionService(t *testing.T) (*SessionService, storage.Store, func()) {
	t.Helper()
	store, cleanup := setupTestStore(t)
	svc := NewSessionService(store, SessionOptions{ShareURL: "https://tipsplit.test/"})
	return svc, store, cleanup
}

func TestNewSession(t *testing.T) {
	svc, _, cleanup := setupSessionService(t)
	defer cleanup()

	id, link, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if len(id) != 12 {
		t.Errorf("expected a 12 character id, got %q", id)
	}
	if !strings.HasPrefix(link, "https://tipsplit.test/?session=") {
		t.Errorf("unexpected link %q", link)
	}

	resolved, err := svc.ResolveSessionID(link)
	if err != nil {
		t.Fatalf("ResolveSessionID failed: %v", err)
	}
	if resolved != id {
		t.Errorf("expected %q from link, got %q", id, resolved)
	}
}

func TestResolveSessionID(t *testing.T) {
	svc, _, cleanup := setupSessionService(t)
	defer cleanup()

	if id, err := svc.ResolveSessionID("  abc123 "); err != nil || id != "abc123" {
		t.Errorf("expected bare id abc123, got %q (%v)", id, err)
	}
	if _, err := svc.ResolveSessionID("https://tipsplit.test/?lang=he"); !errors.Is(err, session.ErrInvalidSessionID) {
		t.Errorf("expected ErrInvalidSessionID for a link without a session, got %v", err)
	}
	if _, err := svc.ResolveSessionID(""); !errors.Is(err, session.ErrEmptySessionID) {
		t.Errorf("expected ErrEmptySessionID for an empty id, got %v", err)
	}
}

func TestResolveSessionID_RejectsUnderscore(t *testing.T) {
	svc, _, cleanup := setupSessionService(t)
	defer cleanup()

	// "a_b" would read as participant "b" of session "a"
	for _, input := range []string{"a_b", "https://tipsplit.test/?session=a_b"} {
		if _, err := svc.ResolveSessionID(input); !errors.Is(err, session.ErrInvalidSessionID) {
			t.Errorf("expected ErrInvalidSessionID for %q, got %v", input, err)
		}
	}
}

func TestShareLink_RequiresBaseURL(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewSessionService(store, SessionOptions{})
	if _, _, err := svc.NewSession(); err == nil {
		t.Error("expected an error without a share url")
	}
}

func TestSessionSummary_TwoParticipants(t *testing.T) {
	svc, _, cleanup := setupSessionService(t)
	defer cleanup()
	ctx := context.Background()

	owner, err := svc.Open(ctx, "dinner", "", nil)
	if err != nil {
		t.Fatalf("Open owner failed: %v", err)
	}
	p := owner.People()[0]
	owner.AddItem(ctx, p.ID, "Steak", "22.00")

	var lastTotal float64
	guest, err := svc.Open(ctx, "dinner", "guest1", func(total float64) { lastTotal = total })
	if err != nil {
		t.Fatalf("Open guest failed: %v", err)
	}
	g := guest.People()[0]
	guest.AddItem(ctx, g.ID, "Fish", "33.00")
	assertClose(t, "guest grand total", 33*1.15, lastTotal)

	summary, err := svc.Summary(ctx, "dinner")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(summary.Entries) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(summary.Entries))
	}
	assertClose(t, "grand total", 55, summary.GrandTotal)
	assertClose(t, "average", 27.5, summary.PerParticipantAverage)
}

func TestPreferences(t *testing.T) {
	svc, store, cleanup := setupSessionService(t)
	defer cleanup()
	ctx := context.Background()

	prefs := svc.Preferences(ctx)
	if prefs.Currency != models.CurrencyUSD || prefs.Language != models.LanguageEnglish {
		t.Errorf("unexpected defaults: %+v", prefs)
	}

	if err := store.Put(ctx, storage.KeyCurrency, "ils"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := svc.SetLanguage(ctx, models.LanguageHebrew); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	prefs = svc.Preferences(ctx)
	if prefs.Currency != models.CurrencyILS {
		t.Errorf("expected ILS, got %s", prefs.Currency)
	}
	if prefs.Language != models.LanguageHebrew {
		t.Errorf("expected he, got %s", prefs.Language)
	}

	if err := store.Put(ctx, storage.KeyCurrency, "DOGE"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got := svc.Preferences(ctx).Currency; got != models.CurrencyUSD {
		t.Errorf("expected invalid currency to fall back to USD, got %s", got)
	}
}
