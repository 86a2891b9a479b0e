package models

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code used for display only; no conversion happens.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyILS Currency = "ILS"

	DefaultCurrency = CurrencyUSD
)

// Currencies lists the supported currencies in selector order.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyILS}

// ParseCurrency normalizes a currency code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

// Language is a UI language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHebrew  Language = "he"

	DefaultLanguage = LanguageEnglish
)

// ParseLanguage maps a language tag such as "he-IL" to a supported language,
// falling back to English.
func ParseLanguage(s string) Language {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if base == string(LanguageHebrew) {
		return LanguageHebrew
	}
	return LanguageEnglish
}
