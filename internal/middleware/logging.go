// Package middleware wraps cobra command handlers with cross-cutting behavior.
package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// ErrInvalidInput marks errors caused by bad arguments. They are logged as
// warnings rather than errors.
var ErrInvalidInput = errors.New("invalid input")

// RunFunc is the signature of cobra's RunE.
type RunFunc func(cmd *cobra.Command, args []string) error

// Logging wraps next so every invocation logs the command path, session,
// duration and any error.
func Logging(logger *slog.Logger, next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		command := cmd.CommandPath()
		sessionID := GetSessionID(cmd.Context()) // empty outside itemized commands

		err := next(cmd, args)

		duration := time.Since(start).Milliseconds()
		switch {
		case err == nil:
			logger.Debug("Command ok",
				"command", command,
				"session_id", sessionID,
				"duration_ms", duration,
			)
		case errors.Is(err, ErrInvalidInput):
			logger.Warn("Command rejected",
				"command", command,
				"error", err,
				"session_id", sessionID,
				"duration_ms", duration,
			)
		default:
			logger.Error("Command failed",
				"command", command,
				"error", err,
				"session_id", sessionID,
				"duration_ms", duration,
			)
		}
		return err
	}
}

// WrapCommands applies Logging to cmd and every descendant that has a RunE.
func WrapCommands(cmd *cobra.Command, logger *slog.Logger) {
	if cmd.RunE != nil {
		cmd.RunE = Logging(logger, cmd.RunE)
	}
	for _, sub := range cmd.Commands() {
		WrapCommands(sub, logger)
	}
}
