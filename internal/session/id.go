// Package session implements itemized sessions: the per-person roster,
// its persistence under a session identifier, and the aggregation of every
// participant stored under the same identifier.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ShareParam is the query parameter that carries a session ID in a share link.
const ShareParam = "session"

const sessionIDLength = 12

var (
	ErrEmptySessionID       = errors.New("session id is required")
	ErrInvalidSessionID     = errors.New("invalid session id")
	ErrInvalidParticipantID = errors.New("invalid participant id")
)

// invalidIDChars cannot appear in session or participant IDs. "_" separates
// the two inside a roster key; the rest would break a share link.
const invalidIDChars = "_/?=&#"

// ValidateSessionID checks that id can address a session.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptySessionID
	}
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// ValidateParticipantID checks a participant ID. Empty addresses the owner.
func ValidateParticipantID(id string) error {
	if id != "" && !validID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidParticipantID, id)
	}
	return nil
}

func validID(id string) bool {
	return !strings.ContainsAny(id, invalidIDChars) && !strings.ContainsFunc(id, unicode.IsSpace)
}

// NewSessionID returns a random 12-character lowercase alphanumeric token.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:sessionIDLength]
}

// SessionIDFromLink extracts the session ID from a share link.
// ok is false when the link does not parse or carries no session.
func SessionIDFromLink(rawURL string) (id string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	id = strings.TrimSpace(u.Query().Get(ShareParam))
	return id, id != ""
}

// ShareLink adds the session parameter to baseURL, keeping other parameters.
func ShareLink(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set(ShareParam, sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Storage keys. A participant's roster lives under people_<session> or
// people_<session>_<participant>; the tip rate is shared per session.
const (
	peopleKeyPrefix = "people_"
	tipKeyPrefix    = "tip_"
)

// PeopleKey returns the roster key for a participant; an empty participant
// ID addresses the session owner.
func PeopleKey(sessionID, participantID string) string {
	if participantID == "" {
		return peopleKeyPrefix + sessionID
	}
	return peopleKeyPrefix + sessionID + "_" + participantID
}

// TipKey returns the key holding a session's tip rate.
func TipKey(sessionID string) string {
	return tipKeyPrefix + sessionID
}

// PeoplePrefix is the key prefix shared by every roster of a session.
func PeoplePrefix(sessionID string) string {
	return peopleKeyPrefix + sessionID
}

// belongsToSession reports whether key is a roster key of the session:
// either the prefix itself or the prefix followed by "_".
func belongsToSession(key, sessionID string) bool {
	rest, ok := strings.CutPrefix(key, PeoplePrefix(sessionID))
	return ok && (rest == "" || rest[0] == '_')
}

// participantID is the last "_"-separated segment of a roster key.
func participantID(key string) string {
	return key[strings.LastIndex(key, "_")+1:]
}
