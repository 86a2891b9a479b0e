package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/cli/formatter"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/service"
)

// splitFlags are the even-split inputs shared by "split" and "export split".
type splitFlags struct {
	bill     string
	tip      int
	people   int
	currency string
}

func (f *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bill, "bill", "", "Bill amount before tip")
	cmd.Flags().IntVar(&f.tip, "tip", 0, fmt.Sprintf("Tip percentage (%d-%d, presets %v)",
		calculator.MinTipPercent, calculator.MaxTipPercent, calculator.TipPresets))
	cmd.Flags().IntVar(&f.people, "people", 0, "Number of people")
	cmd.Flags().StringVar(&f.currency, "currency", "", "Currency code (USD, EUR, GBP, ILS)")
}

// apply feeds the flags into svc. The bill goes last so the history log
// sees a single complete calculation.
func (f *splitFlags) apply(ctx context.Context, cmd *cobra.Command, svc *service.SplitService) (service.SplitState, error) {
	if f.currency != "" {
		c, err := models.ParseCurrency(f.currency)
		if err != nil {
			return service.SplitState{}, fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
		}
		svc.SetCurrency(ctx, c)
	}
	if cmd.Flags().Changed("tip") {
		svc.SetTipPercent(ctx, f.tip)
	}
	if cmd.Flags().Changed("people") {
		svc.SetPeople(ctx, f.people)
	}
	return svc.SetBill(ctx, f.bill), nil
}

func newSplitCmd(app *App) *cobra.Command {
	var flags splitFlags

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a bill evenly",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := flags.apply(ctx, cmd, app.Split(ctx))
			if err != nil {
				return err
			}
			lang := app.Sessions.Preferences(ctx).Language
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEvenSplit(state.Input, state.Totals, state.Currency, lang))
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("bill")

	return cmd
}
