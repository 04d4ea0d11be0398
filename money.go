package heatmap

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value, typically a market cap.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value in currency. A NaN or infinite value is a zero amount.
func M(value float64, currency string) Money {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Money{value: decimal.Zero, cur: currency}
	}
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	if cur.Template == "" {
		// unknown currency
		return m.value.StringFixed(2)
	}
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Compact returns the value in billions, or millions below one billion, e.g. "12.35bn zł".
func (m Money) Compact() string {
	unit, scaled := "bn", m.value.Shift(-9)
	if m.value.Abs().LessThan(decimal.New(1, 9)) {
		unit, scaled = "m", m.value.Shift(-6)
	}
	cur := m.currency()
	if cur.Grapheme == "" || cur.Template == "" {
		return scaled.StringFixed(2) + unit
	}
	return injectUnit(Money{value: scaled, cur: m.cur}.String(), cur.Grapheme, unit)
}

// injectUnit places unit right after the number of a formatted amount.
func injectUnit(amount, grapheme, unit string) string {
	for i := 0; i+len(grapheme) <= len(amount); i++ {
		if amount[i:i+len(grapheme)] == grapheme {
			if i == 0 {
				// grapheme first: "$12.35" -> "$12.35bn"
				return amount + unit
			}
			// grapheme last: "12,35 zł" -> "12,35bn zł"
			j := i
			for j > 0 && amount[j-1] == ' ' {
				j--
			}
			return amount[:j] + unit + amount[j:]
		}
	}
	return amount + unit
}

// Currency returns the ISO code of m.
func (m Money) Currency() string { return m.cur }
