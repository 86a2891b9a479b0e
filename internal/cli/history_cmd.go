package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent even splits",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent calculations",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				lang := app.Sessions.Preferences(ctx).Language
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(app.History(ctx).Entries(), lang))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the history",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				app.History(ctx).Clear(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			},
		},
	)

	return cmd
}
