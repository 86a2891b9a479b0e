// Package cli implements the tipsplit command-line shell.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/config"
	"github.com/mmynk/tipsplitter/internal/history"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/service"
	"github.com/mmynk/tipsplitter/internal/storage"
)

// App holds everything the commands need.
type App struct {
	Config   *config.Config
	Store    storage.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Sessions *service.SessionService
}

// NewApp wires the services over store.
func NewApp(cfg *config.Config, store storage.Store, logger *slog.Logger, m *metrics.Metrics) *App {
	return &App{
		Config:  cfg,
		Store:   store,
		Logger:  logger,
		Metrics: m,
		Sessions: service.NewSessionService(store, service.SessionOptions{
			Logger:   logger,
			Metrics:  m,
			ShareURL: cfg.Defaults.ShareURL,
			Defaults: service.Preferences{
				Currency: cfg.Currency(),
				Language: cfg.Language(),
			},
		}),
	}
}

// History loads the persisted history log.
func (a *App) History(ctx context.Context) *history.Log {
	return history.Load(ctx, a.Store, a.Logger, a.Metrics)
}

// Split creates an even-split calculator with the configured defaults.
func (a *App) Split(ctx context.Context) *service.SplitService {
	tip := a.Config.TipPercent()
	return service.NewSplitService(ctx, a.Store, a.History(ctx), service.SplitOptions{
		Logger:     a.Logger,
		Metrics:    a.Metrics,
		TipPercent: &tip,
		NumPeople:  a.Config.NumPeople(),
		Currency:   a.Config.Currency(),
	})
}

// NewRootCmd creates the top-level "tipsplit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tipsplit",
		Short:         "Split a bill evenly or by item, with tip",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSplitCmd(app),
		newHistoryCmd(app),
		newItemsCmd(app),
		newSessionCmd(app),
		newExportCmd(app),
		newPrefsCmd(app),
	)

	middleware.WrapCommands(root, app.Logger)
	return root
}
