package export

import (
	"fmt"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/locale"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
)

// Images use the bitmap font, which only has ASCII glyphs, so labels are
// English and amounts carry the currency code instead of a symbol.
const lang = models.LanguageEnglish

func money(v float64, c models.Currency) string {
	return locale.FormatAmount(v, lang) + " " + string(c)
}

func label(k locale.Key) string {
	return locale.Text(k, lang)
}

// EvenSplitSnapshot describes an even split.
func EvenSplitSnapshot(in models.EvenSplitInput, totals models.EvenSplitTotals, c models.Currency) Snapshot {
	return Snapshot{
		Title: label(locale.KeyCalculator),
		Lines: []Line{
			{label(locale.KeyBillAmount), money(in.Bill, c)},
			{label(locale.KeyTipPercentage), locale.FormatPercent(in.TipPercent, lang)},
			{label(locale.KeyNumberOfPeople), fmt.Sprint(in.NumPeople)},
			{label(locale.KeyTipAmount), money(totals.TipAmount, c)},
			{label(locale.KeyTotalBill), money(totals.TotalBill, c)},
			{label(locale.KeyTipPerPerson), money(totals.TipPerPerson, c)},
			{label(locale.KeyTotalPerPerson), money(totals.TotalPerPerson, c)},
		},
	}
}

// ItemizedSnapshot describes an itemized session, one line per person.
func ItemizedSnapshot(totals calculator.ItemizedTotals, tipPercent int, c models.Currency) Snapshot {
	lines := make([]Line, 0, len(totals.People)+4)
	for i, p := range totals.People {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("%s %d", label(locale.KeyPerson), i+1)
		}
		lines = append(lines, Line{name, money(p.Total, c)})
	}
	lines = append(lines,
		Line{label(locale.KeySubtotal), money(totals.Subtotal, c)},
		Line{label(locale.KeyTip), fmt.Sprintf("%s (%s)", money(totals.TipAmount, c), locale.FormatPercent(tipPercent, lang))},
		Line{label(locale.KeyGrandTotal), money(totals.GrandTotal, c)},
	)
	if totals.Mismatch {
		lines = append(lines, Line{label(locale.KeyDifference), money(totals.Difference, c)})
	}
	return Snapshot{Title: label(locale.KeyItemsCalculator), Lines: lines}
}

// SummarySnapshot describes a shared session.
func SummarySnapshot(summary session.Summary, c models.Currency) Snapshot {
	lines := make([]Line, 0, len(summary.Entries)+3)
	for _, e := range summary.Entries {
		lines = append(lines, Line{e.ParticipantID, money(e.Subtotal, c)})
	}
	lines = append(lines,
		Line{label(locale.KeyParticipants), fmt.Sprint(len(summary.Entries))},
		Line{label(locale.KeyTotalAmount), money(summary.GrandTotal, c)},
		Line{label(locale.KeyPerPerson), money(summary.PerParticipantAverage, c)},
	)
	return Snapshot{
		Title: fmt.Sprintf("%s: %s", label(locale.KeyShareSession), summary.SessionID),
		Lines: lines,
	}
}
