// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	fmtMu    sync.RWMutex
	printer  = message.NewPrinter(language.English)
	currency = "€"
)

// SetMoneyFormat configures the locale used for digit grouping and the
// currency symbol prefixed to amounts. Unknown locales fall back to English.
func SetMoneyFormat(locale, symbol string) {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	fmtMu.Lock()
	defer fmtMu.Unlock()
	printer = message.NewPrinter(tag)
	currency = symbol
}

// CurrencySymbol returns the configured currency symbol.
func CurrencySymbol() string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return currency
}

// FormatAmount formats a decimal with two places and locale grouping,
// without a currency symbol. e.g., 1234.5 -> "1,234.50"
func FormatAmount(d decimal.Decimal) string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatMoney formats an amount with the currency symbol.
// e.g., -12.5 -> "-€12.50"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + CurrencySymbol() + FormatAmount(d.Neg())
	}
	return CurrencySymbol() + FormatAmount(d)
}

// FormatNumber adds locale separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return printer.Sprintf("%d", n)
}

// FormatPercent formats a 0-100 percentage with one decimal place.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDays renders "day X of N".
func FormatDays(logged, total int) string {
	return fmt.Sprintf("day %d of %d", logged, total)
}

// Outcome describes the end-of-month result for the remaining amount.
func Outcome(remaining decimal.Decimal) string {
	switch {
	case remaining.IsNegative():
		return "You went over budget by " + FormatMoney(remaining.Neg())
	case remaining.IsZero():
		return "Great job staying within budget!"
	default:
		return "Great job staying within budget! You saved " + FormatMoney(remaining) + " this month!"
	}
}
