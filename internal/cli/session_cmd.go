package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/cli/formatter"
	"github.com/mmynk/tipsplitter/internal/locale"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/session"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create and inspect shared sessions",
	}

	cmd.AddCommand(
		newSessionNewCmd(app),
		newSessionLinkCmd(app),
		newSessionSummaryCmd(app),
	)

	return cmd
}

func newSessionNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new session and print its share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, link, err := app.Sessions.NewSession()
			if err != nil {
				return err
			}
			lang := app.Sessions.Preferences(cmd.Context()).Language
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderPairs([]formatter.KeyValue{
				{Key: "Session", Value: formatter.Bold(id)},
				{Key: locale.Text(locale.KeySessionLink, lang), Value: link},
			}))
			return nil
		},
	}
}

func newSessionLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link <session>",
		Short: "Print the share link of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Sessions.ResolveSessionID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			link, err := app.Sessions.ShareLink(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func newSessionSummaryCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "summary <session>",
		Short: "Combine every participant's items in a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Sessions.ResolveSessionID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			ctx := middleware.WithSessionID(cmd.Context(), id)
			prefs := app.Sessions.Preferences(ctx)
			out := cmd.OutOrStdout()

			summary, err := app.Sessions.Summary(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatSummary(summary, prefs.Currency, prefs.Language))
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			updates := make(chan session.Summary)
			cancel := app.Sessions.Aggregator(id).Watch(ctx, func(s session.Summary) {
				select {
				case updates <- s:
				case <-ctx.Done():
				}
			})
			defer cancel()

			fmt.Fprintln(out, formatter.Dim("Watching for changes, Ctrl+C to stop"))
			for {
				select {
				case <-ctx.Done():
					return nil
				case s := <-updates:
					fmt.Fprintln(out, formatter.FormatSummary(s, prefs.Currency, prefs.Language))
				}
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and print the summary whenever it changes")

	return cmd
}
