package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/export"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/session"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save a calculation as a PNG image",
	}
	cmd.PersistentFlags().StringVarP(&out, "out", "o", "tip-calculation.png", "Output file")

	// save waits for the background write so the process does not exit first.
	save := func(ctx context.Context, cmd *cobra.Command, snap export.Snapshot) error {
		if err := <-export.Async(ctx, out, snap, app.Logger, app.Metrics); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", out)
		return nil
	}

	var split splitFlags
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Export an even split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := split.apply(ctx, cmd, app.Split(ctx))
			if err != nil {
				return err
			}
			return save(ctx, cmd, export.EvenSplitSnapshot(state.Input, state.Totals, state.Currency))
		},
	}
	split.register(splitCmd)
	_ = splitCmd.MarkFlagRequired("bill")

	var participant string
	itemsCmd := &cobra.Command{
		Use:   "items <session>",
		Short: "Export one participant's itemized split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Sessions.ResolveSessionID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			if err := session.ValidateParticipantID(participant); err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			ctx := middleware.WithSessionID(cmd.Context(), id)
			sess, err := app.Sessions.Open(ctx, id, participant, nil)
			if err != nil {
				return err
			}
			currency := app.Sessions.Preferences(ctx).Currency
			return save(ctx, cmd, export.ItemizedSnapshot(sess.Totals(), sess.TipPercent(), currency))
		},
	}
	itemsCmd.Flags().StringVar(&participant, "participant", "", "Participant ID within the session")

	sessionCmd := &cobra.Command{
		Use:   "session <session>",
		Short: "Export a shared-session summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Sessions.ResolveSessionID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			ctx := middleware.WithSessionID(cmd.Context(), id)
			summary, err := app.Sessions.Summary(ctx, id)
			if err != nil {
				return err
			}
			currency := app.Sessions.Preferences(ctx).Currency
			return save(ctx, cmd, export.SummarySnapshot(summary, currency))
		},
	}

	cmd.AddCommand(splitCmd, itemsCmd, sessionCmd)
	return cmd
}
