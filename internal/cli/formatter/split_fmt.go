package formatter

import (
	"fmt"
	"strings"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/locale"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
)

// FormatEvenSplit renders an even split as a titled box.
func FormatEvenSplit(in models.EvenSplitInput, totals models.EvenSplitTotals, c models.Currency, lang models.Language) string {
	money := func(v float64) string { return locale.FormatMoney(v, c, lang) }
	t := func(k locale.Key) string { return locale.Text(k, lang) }

	inputs := RenderPairs([]KeyValue{
		{t(locale.KeyBillAmount), money(in.Bill)},
		{t(locale.KeyTipPercentage), locale.FormatPercent(in.TipPercent, lang)},
		{t(locale.KeyNumberOfPeople), fmt.Sprint(in.NumPeople)},
	})
	results := RenderPairs([]KeyValue{
		{t(locale.KeyTipAmount), money(totals.TipAmount)},
		{t(locale.KeyTotalBill), money(totals.TotalBill)},
		{t(locale.KeyTipPerPerson), money(totals.TipPerPerson)},
		{t(locale.KeyTotalPerPerson), Bold(money(totals.TotalPerPerson))},
	})
	return RenderBox(t(locale.KeyCalculator), inputs+"\n\n"+results)
}

// FormatHistory renders the history log as a table, most recent first.
func FormatHistory(entries []models.HistoryEntry, lang models.Language) string {
	t := func(k locale.Key) string { return locale.Text(k, lang) }
	if len(entries) == 0 {
		return Dim(t(locale.KeyNoHistory)) + "\n"
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.Timestamp.Local().Format("Jan 2 15:04"),
			locale.FormatMoney(e.Bill, e.Currency, lang),
			locale.FormatPercent(e.TipPercent, lang),
			fmt.Sprint(e.NumPeople),
			locale.FormatMoney(e.TotalPerPerson, e.Currency, lang),
		}
	}
	return Header(t(locale.KeyHistory)) + "\n" + RenderTable(
		[]string{"", t(locale.KeyBill), t(locale.KeyTip), t(locale.KeyPeople), t(locale.KeyPerPerson)},
		rows,
	)
}

// FormatItemized renders every person's items and share, then the totals
// and the expected-total check.
func FormatItemized(people []models.Person, totals calculator.ItemizedTotals, tipPercent int, c models.Currency, lang models.Language) string {
	money := func(v float64) string { return locale.FormatMoney(v, c, lang) }
	t := func(k locale.Key) string { return locale.Text(k, lang) }

	var b strings.Builder
	for i, p := range people {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("%s %d", t(locale.KeyPerson), i+1)
		}
		fmt.Fprintf(&b, "%s %s\n", Bold(fmt.Sprintf("%d. %s", i+1, name)), Dim(string(p.ID)))

		rows := make([][]string, len(p.Items))
		for j, it := range p.Items {
			rows[j] = []string{fmt.Sprint(j + 1), it.Description, it.Price, Dim(string(it.ID))}
		}
		if len(rows) > 0 {
			b.WriteString(RenderTable([]string{"#", t(locale.KeyDescription), t(locale.KeyPrice), "ID"}, rows))
		}

		if split, ok := totals.Person(p.ID); ok {
			b.WriteString(RenderPairs([]KeyValue{
				{t(locale.KeySubtotal), money(split.Subtotal)},
				{t(locale.KeyTip), money(split.Tip)},
				{t(locale.KeyTotal), StyleGreen.Render(money(split.Total))},
			}))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(RenderPairs([]KeyValue{
		{t(locale.KeyTipPercentage), locale.FormatPercent(tipPercent, lang)},
		{t(locale.KeySubtotal), money(totals.Subtotal)},
		{t(locale.KeyTip), money(totals.TipAmount)},
		{t(locale.KeyGrandTotal), Bold(money(totals.GrandTotal))},
	}))

	if totals.HasExpected {
		b.WriteString("\n")
		b.WriteString(RenderPairs([]KeyValue{{t(locale.KeyExpectedTotal), money(totals.Expected)}}))
	}
	if totals.Mismatch {
		fmt.Fprintf(&b, "\n\n%s\n%s",
			Warning(t(locale.KeyMismatch)),
			RenderPairs([]KeyValue{{t(locale.KeyDifference), StyleRed.Render(money(totals.Difference))}}),
		)
	}
	return RenderBox(t(locale.KeyItemsCalculator), b.String())
}

// FormatSummary renders the participants of a shared session.
func FormatSummary(summary session.Summary, c models.Currency, lang models.Language) string {
	money := func(v float64) string { return locale.FormatMoney(v, c, lang) }
	t := func(k locale.Key) string { return locale.Text(k, lang) }

	if len(summary.Entries) == 0 {
		return RenderBox(t(locale.KeyShareSession), Dim(t(locale.KeyNoParticipants)))
	}

	rows := make([][]string, len(summary.Entries))
	for i, e := range summary.Entries {
		rows[i] = []string{e.ParticipantID, fmt.Sprint(len(e.People)), money(e.Subtotal)}
	}
	content := RenderTable([]string{t(locale.KeyParticipants), t(locale.KeyPeople), t(locale.KeySubtotal)}, rows) +
		"\n" + RenderPairs([]KeyValue{
		{t(locale.KeyParticipants), fmt.Sprint(len(summary.Entries))},
		{t(locale.KeyTotalAmount), Bold(money(summary.GrandTotal))},
		{t(locale.KeyPerPerson), money(summary.PerParticipantAverage)},
	})
	return RenderBox(t(locale.KeyShareSession)+" · "+summary.SessionID, content)
}
