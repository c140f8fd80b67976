package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency_Fallback(t *testing.T) {
	assert.Equal(t, "$ 0.00", FormatCurrency(0, nil))
	assert.Equal(t, "$ 0.00", FormatCurrency(math.NaN(), nil))
	assert.Equal(t, "$ 0.00", FormatCurrency(math.Inf(1), nil))
	assert.Equal(t, "$ 1,234.50", FormatCurrency(1234.5, nil))
	assert.Equal(t, "$ 1,000,000.00", FormatCurrency(1e6, nil))
}

func TestFormatCurrency_WithCurrency(t *testing.T) {
	chf := &CurrencyFormat{Symbol: "CHF", Decimals: 2, Rounding: 0.05}
	assert.Equal(t, "CHF 12.30", FormatCurrency(12.32, chf))
	assert.Equal(t, "CHF 12.35", FormatCurrency(12.33, chf))

	yen := &CurrencyFormat{Symbol: "¥", Decimals: 0, Rounding: 1}
	assert.Equal(t, "¥ 1,235", FormatCurrency(1234.5, yen))

	dinar := &CurrencyFormat{Symbol: "KD", Decimals: 3, Rounding: 0.001}
	assert.Equal(t, "KD 1,234,567.891", FormatCurrency(1234567.891, dinar))

	noRounding := &CurrencyFormat{Symbol: "€", Decimals: 2}
	assert.Equal(t, "€ 10.13", FormatCurrency(10.125, noRounding))
	assert.Equal(t, "€ 0.00", FormatCurrency(math.NaN(), noRounding))
}

func TestFormatCurrencyString(t *testing.T) {
	assert.Equal(t, "$ 49.90", FormatCurrencyString("49.9", nil))
	assert.Equal(t, "$ 49.90", FormatCurrencyString(" 49.90 ", nil))
	assert.Equal(t, "$ 0.00", FormatCurrencyString("abc", nil))
}

func TestRoundToIncrement(t *testing.T) {
	assert.Equal(t, 0.15, RoundToIncrement(0.14, 0.05))
	assert.Equal(t, 7.0, RoundToIncrement(7.4, 1))
	assert.Equal(t, 7.4, RoundToIncrement(7.4, 0))
	assert.Equal(t, 7.4, RoundToIncrement(7.4, -1))
	assert.Equal(t, 7.4, RoundToIncrement(7.4, math.Inf(1)))
	assert.Equal(t, 7.4, RoundToIncrement(7.4, math.NaN()))
	assert.True(t, math.IsInf(RoundToIncrement(math.Inf(-1), 0.05), -1))
}
