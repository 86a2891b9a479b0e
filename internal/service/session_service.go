package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// Preferences are the display settings stored alongside the sessions.
type Preferences struct {
	Currency models.Currency
	Language models.Language
}

// SessionOptions configures a SessionService.
type SessionOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// ShareURL is the base URL share links are built on.
	ShareURL string

	// Defaults apply when no preference has been stored.
	Defaults Preferences
}

// SessionService opens itemized sessions and their shared-session views
// over one store.
type SessionService struct {
	store    storage.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	shareURL string
	defaults Preferences
}

// NewSessionService creates a SessionService with the given storage backend.
func NewSessionService(store storage.Store, opts SessionOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(nil)
	}
	defaults := opts.Defaults
	if defaults.Currency == "" {
		defaults.Currency = models.DefaultCurrency
	}
	if defaults.Language == "" {
		defaults.Language = models.DefaultLanguage
	}
	return &SessionService{
		store:    store,
		logger:   logger,
		metrics:  m,
		shareURL: opts.ShareURL,
		defaults: defaults,
	}
}

// NewSession creates a session ID and its share link.
func (s *SessionService) NewSession() (id, link string, err error) {
	id = session.NewSessionID()
	link, err = s.ShareLink(id)
	if err != nil {
		return "", "", err
	}
	s.logger.Info("Session created", "session_id", id)
	return id, link, nil
}

// ShareLink builds the link that opens sessionID.
func (s *SessionService) ShareLink(sessionID string) (string, error) {
	if s.shareURL == "" {
		return "", errors.New("no share url configured")
	}
	return session.ShareLink(s.shareURL, sessionID)
}

// ResolveSessionID accepts either a share link or a bare session ID.
func (s *SessionService) ResolveSessionID(linkOrID string) (string, error) {
	id, ok := session.SessionIDFromLink(linkOrID)
	if !ok {
		id = strings.TrimSpace(linkOrID)
	}
	if err := session.ValidateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}

// Open loads a participant's itemized roster. onTotalChange may be nil.
func (s *SessionService) Open(ctx context.Context, sessionID, participantID string, onTotalChange func(float64)) (*session.ItemizedSession, error) {
	sess, err := session.OpenItemized(ctx, s.store, sessionID, participantID, session.Options{
		Logger:        s.logger,
		Metrics:       s.metrics,
		OnTotalChange: onTotalChange,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return sess, nil
}

// Aggregator returns the shared-session view of sessionID.
func (s *SessionService) Aggregator(sessionID string) *session.Aggregator {
	return session.NewAggregator(s.store, sessionID, s.logger, s.metrics)
}

// Summary aggregates every participant of sessionID.
func (s *SessionService) Summary(ctx context.Context, sessionID string) (session.Summary, error) {
	summary, err := s.Aggregator(sessionID).Refresh(ctx)
	if err != nil {
		s.logger.Error("Session summary failed", "session_id", sessionID, "error", err)
		return session.Summary{}, err
	}
	return summary, nil
}

// Preferences reads the stored currency and language, falling back to the
// configured defaults for anything missing or invalid.
func (s *SessionService) Preferences(ctx context.Context) Preferences {
	prefs := s.defaults
	if raw, ok := s.get(ctx, storage.KeyCurrency); ok {
		if c, err := models.ParseCurrency(raw); err == nil {
			prefs.Currency = c
		}
	}
	if raw, ok := s.get(ctx, storage.KeyLanguage); ok {
		prefs.Language = models.ParseLanguage(raw)
	}
	return prefs
}

// SetLanguage stores the language preference.
func (s *SessionService) SetLanguage(ctx context.Context, lang models.Language) error {
	if err := s.store.Put(ctx, storage.KeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	return nil
}

func (s *SessionService) get(ctx context.Context, key string) (string, bool) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("Failed to read preference", "key", key, "error", err)
		}
		return "", false
	}
	return raw, true
}
