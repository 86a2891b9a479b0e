package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/cli/formatter"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
)

// itemsAction mutates an open session; the result is printed afterwards.
type itemsAction func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error

type itemsFlags struct {
	session     string
	participant string
	expected    string
}

func newItemsCmd(app *App) *cobra.Command {
	var flags itemsFlags

	cmd := &cobra.Command{
		Use:   "items",
		Short: "Itemized split: each person pays for their own items",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Sessions.ResolveSessionID(flags.session)
			if err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			if err := session.ValidateParticipantID(flags.participant); err != nil {
				return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
			}
			flags.session = id
			cmd.SetContext(middleware.WithSessionID(cmd.Context(), id))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&flags.session, "session", "", "Session ID or share link")
	cmd.PersistentFlags().StringVar(&flags.participant, "participant", "", "Participant ID within the session")
	cmd.PersistentFlags().StringVar(&flags.expected, "expected", "", "Expected total, checked against the items")
	_ = cmd.MarkPersistentFlagRequired("session")

	run := func(action itemsAction) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.Sessions.Open(ctx, flags.session, flags.participant, nil)
			if err != nil {
				return err
			}
			if action != nil {
				if err := action(cmd, sess, args); err != nil {
					return err
				}
			}
			if flags.expected != "" {
				sess.SetExpectedTotal(ctx, flags.expected)
			}

			prefs := app.Sessions.Preferences(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemized(
				sess.People(), sess.Totals(), sess.TipPercent(), prefs.Currency, prefs.Language))
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the roster and totals",
			Args:  cobra.NoArgs,
			RunE:  run(nil),
		},
		&cobra.Command{
			Use:   "add-person [name]",
			Short: "Add a person",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				sess.AddPerson(cmd.Context(), name)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove-person <person>",
			Short: "Remove a person (the last person stays)",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				p, err := resolvePerson(sess.People(), args[0])
				if err != nil {
					return err
				}
				sess.RemovePerson(cmd.Context(), p.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename-person <person> <name>",
			Short: "Rename a person",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				p, err := resolvePerson(sess.People(), args[0])
				if err != nil {
					return err
				}
				sess.RenamePerson(cmd.Context(), p.ID, args[1])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "add-item <person> <description> <price>",
			Short: "Add an item to a person",
			Args:  cobra.ExactArgs(3),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				p, err := resolvePerson(sess.People(), args[0])
				if err != nil {
					return err
				}
				sess.AddItem(cmd.Context(), p.ID, args[1], args[2])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "update-item <person> <item> <description|price> <value>",
			Short: "Change an item's description or price",
			Args:  cobra.ExactArgs(4),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				p, err := resolvePerson(sess.People(), args[0])
				if err != nil {
					return err
				}
				it, err := resolveItem(p, args[1])
				if err != nil {
					return err
				}
				field := models.ItemField(args[2])
				if field != models.ItemFieldDescription && field != models.ItemFieldPrice {
					return fmt.Errorf("%w: unknown field %q", middleware.ErrInvalidInput, args[2])
				}
				sess.UpdateItem(cmd.Context(), p.ID, it.ID, field, args[3])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove-item <person> <item>",
			Short: "Remove an item",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				p, err := resolvePerson(sess.People(), args[0])
				if err != nil {
					return err
				}
				it, err := resolveItem(p, args[1])
				if err != nil {
					return err
				}
				sess.RemoveItem(cmd.Context(), p.ID, it.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "tip <percent>",
			Short: "Set the tip percentage for the session",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, sess *session.ItemizedSession, args []string) error {
				n, err := parseInt(args[0], "tip percentage")
				if err != nil {
					return err
				}
				sess.SetTipPercent(cmd.Context(), n)
				return nil
			}),
		},
	)

	return cmd
}
