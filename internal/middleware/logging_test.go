package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func runWrapped(t *testing.T, ctx context.Context, runErr error) map[string]any {
	t.Helper()
	var buf bytes.Buffer

	root := &cobra.Command{Use: "tipsplit"}
	child := &cobra.Command{
		Use:  "show",
		RunE: func(cmd *cobra.Command, args []string) error { return runErr },
	}
	root.AddCommand(child)
	WrapCommands(root, newTestLogger(&buf))

	child.SetContext(ctx)
	err := child.RunE(child, nil)
	assert.Equal(t, runErr, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestLogging_Levels(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		level   string
		message string
	}{
		{"ok", nil, "DEBUG", "Command ok"},
		{"invalid input", fmt.Errorf("%w: bad tip", ErrInvalidInput), "WARN", "Command rejected"},
		{"failure", errors.New("disk full"), "ERROR", "Command failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := runWrapped(t, context.Background(), tt.err)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.message, record["msg"])
			assert.Equal(t, "tipsplit show", record["command"])
			assert.Contains(t, record, "duration_ms")
		})
	}
}

func TestLogging_SessionID(t *testing.T) {
	record := runWrapped(t, WithSessionID(context.Background(), "abc123"), nil)
	assert.Equal(t, "abc123", record["session_id"])
}

func TestGetSessionID(t *testing.T) {
	assert.Equal(t, "", GetSessionID(nil)) //nolint:staticcheck
	assert.Equal(t, "", GetSessionID(context.Background()))
	assert.Equal(t, "s1", GetSessionID(WithSessionID(context.Background(), "s1")))
}
