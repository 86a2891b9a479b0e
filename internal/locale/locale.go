// Package locale formats amounts and labels for the supported languages.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/models"
)

var symbols = map[models.Currency]string{
	models.CurrencyUSD: "$",
	models.CurrencyEUR: "€",
	models.CurrencyGBP: "£",
	models.CurrencyILS: "₪",
}

// Symbol returns the display symbol for c, or the code itself when unknown.
func Symbol(c models.Currency) string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c)
}

func tag(lang models.Language) language.Tag {
	if lang == models.LanguageHebrew {
		return language.Hebrew
	}
	return language.English
}

// FormatAmount renders v with two fraction digits and the language's digit
// grouping, without a currency symbol.
func FormatAmount(v float64, lang models.Language) string {
	p := message.NewPrinter(tag(lang))
	return p.Sprint(number.Decimal(calculator.Round2(v), number.Scale(2)))
}

// FormatMoney renders v in currency c. English puts the symbol first,
// Hebrew puts it after the amount.
func FormatMoney(v float64, c models.Currency, lang models.Language) string {
	amount := FormatAmount(v, lang)
	if lang == models.LanguageHebrew {
		return amount + " " + Symbol(c)
	}
	return Symbol(c) + amount
}

// FormatPercent renders a whole tip percentage, e.g. "15%".
func FormatPercent(p int, lang models.Language) string {
	return message.NewPrinter(tag(lang)).Sprintf("%d%%", p)
}
