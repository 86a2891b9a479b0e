package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for the session a command operates on.
const SessionIDKey contextKey = "session_id"

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}
