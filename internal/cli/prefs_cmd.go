package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/tipsplitter/internal/cli/formatter"
	"github.com/mmynk/tipsplitter/internal/locale"
	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/storage"
)

func newPrefsCmd(app *App) *cobra.Command {
	var currency, language string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the display currency and language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if currency != "" {
				c, err := models.ParseCurrency(currency)
				if err != nil {
					return fmt.Errorf("%w: %v", middleware.ErrInvalidInput, err)
				}
				if err := app.Store.Put(ctx, storage.KeyCurrency, string(c)); err != nil {
					return fmt.Errorf("failed to save currency: %w", err)
				}
			}
			if language != "" {
				if err := app.Sessions.SetLanguage(ctx, models.ParseLanguage(language)); err != nil {
					return err
				}
			}

			prefs := app.Sessions.Preferences(ctx)
			codes := make([]string, len(models.Currencies))
			for i, c := range models.Currencies {
				codes[i] = fmt.Sprintf("%s %s", c, locale.Symbol(c))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderPairs([]formatter.KeyValue{
				{Key: locale.Text(locale.KeyCurrency, prefs.Language), Value: formatter.Bold(string(prefs.Currency))},
				{Key: "Language", Value: formatter.Bold(string(prefs.Language))},
				{Key: "Available", Value: formatter.Dim(strings.Join(codes, ", "))},
			}))
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code (USD, EUR, GBP, ILS)")
	cmd.Flags().StringVar(&language, "language", "", "Language (en, he)")

	return cmd
}
