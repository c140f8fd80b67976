package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormat is the display descriptor used by FormatCurrency.
type CurrencyFormat struct {
	Symbol   string
	Decimals int
	Rounding float64
}

var fallbackFormat = CurrencyFormat{Symbol: "$", Decimals: 2}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders "<symbol> <amount>" with grouped thousands. Without a
// currency it falls back to dollars with two decimals. NaN and infinities
// render as zero.
func FormatCurrency(amount float64, cur *CurrencyFormat) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	f := fallbackFormat
	if cur != nil {
		f = *cur
		if f.Decimals < 0 {
			f.Decimals = 0
		}
		amount = RoundToIncrement(amount, f.Rounding)
	}

	// Round here so the printer never rounds half-to-even on its own.
	amount = decimal.NewFromFloat(amount).Round(int32(f.Decimals)).InexactFloat64()
	formatted := printer.Sprint(number.Decimal(amount, number.Scale(f.Decimals)))
	return f.Symbol + " " + formatted
}

// FormatCurrencyString formats a price that arrived as a string. Unparseable
// input formats as zero.
func FormatCurrencyString(amount string, cur *CurrencyFormat) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		v = 0
	}
	return FormatCurrency(v, cur)
}

// RoundToIncrement snaps amount to the nearest multiple of increment.
// Non-positive or non-finite increments leave the amount unchanged.
func RoundToIncrement(amount, increment float64) float64 {
	if increment <= 0 || math.IsNaN(increment) || math.IsInf(increment, 0) {
		return amount
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	inc := decimal.NewFromFloat(increment)
	return decimal.NewFromFloat(amount).Div(inc).Round(0).Mul(inc).InexactFloat64()
}
