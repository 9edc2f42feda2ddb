// Package types provides common value types shared across the engine.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a fixed-point monetary amount in a given ISO 4217
// currency. Arithmetic never touches float64 — every operation routes
// through shopspring/decimal, and final results are always rounded to the
// currency's scale with round-half-to-even (banker's rounding), per the
// engine's decimal-semantics invariant.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // ISO 4217 lowercase: "usd", "eur", "jpy"
}

// intermediateScale is the extra precision carried during multi-step
// arithmetic before a final round to currency scale, avoiding rounding
// pile-up across a chain of operations.
const intermediateScale = 8

// New creates a Money value from a decimal string in major units (e.g.
// "49.00"), rounding to the currency's declared scale.
func New(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("types: parse money amount %q: %w", amount, err)
	}
	cur := strings.ToLower(currency)
	return Money{Amount: d.RoundBank(int32(CurrencyScale(cur))), Currency: cur}, nil
}

// FromMinor constructs a Money value from an integer count of the
// currency's smallest unit (cents for USD, pence for GBP, none for JPY).
func FromMinor(minor int64, currency string) Money {
	cur := strings.ToLower(currency)
	scale := CurrencyScale(cur)
	return Money{Amount: decimal.New(minor, -int32(scale)), Currency: cur}
}

// USD creates a Money value in US Dollars from a decimal string of major units.
func USD(amount string) Money { m, _ := New(amount, "usd"); return m }

// EUR creates a Money value in Euros from a decimal string of major units.
func EUR(amount string) Money { m, _ := New(amount, "eur"); return m }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: strings.ToLower(currency)}
}

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return m.round(m.Amount.Add(other.Amount))
}

// Subtract subtracts another Money value. Panics if currencies don't match.
func (m Money) Subtract(other Money) Money {
	m.assertSameCurrency(other)
	return m.round(m.Amount.Sub(other.Amount))
}

// Multiply multiplies the Money by a decimal quantity, carrying
// intermediate precision before rounding to currency scale.
func (m Money) Multiply(qty decimal.Decimal) Money {
	scaled := m.Amount.Round(intermediateScale).Mul(qty)
	return m.round(scaled)
}

// MultiplyInt multiplies the Money by an integer quantity exactly.
func (m Money) MultiplyInt(qty int64) Money {
	return m.round(m.Amount.Mul(decimal.NewFromInt(qty)))
}

// Divide divides the Money by a divisor, rounding the result to currency
// scale with banker's rounding. Panics if divisor is zero.
func (m Money) Divide(divisor decimal.Decimal) Money {
	if divisor.IsZero() {
		panic("types: money division by zero")
	}
	scaled := m.Amount.Round(intermediateScale).DivRound(divisor, int32(intermediateScale))
	return m.round(scaled)
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money { return Money{Amount: m.Amount.Neg(), Currency: m.Currency} }

// Abs returns the absolute value.
func (m Money) Abs() Money { return Money{Amount: m.Amount.Abs(), Currency: m.Currency} }

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// Equal returns true if both Money values are numerically equal with the
// same currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// LessThan returns true if this Money is less than other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount.LessThan(other.Amount)
}

// GreaterThan returns true if this Money is greater than other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount.GreaterThan(other.Amount)
}

// WithinTolerance reports whether |m - other| <= tolerance, used to
// compare amounts across the engine's rounding tolerance (§3 P1/P2).
func (m Money) WithinTolerance(other Money, tolerance Money) bool {
	m.assertSameCurrency(other)
	diff := m.Amount.Sub(other.Amount).Abs()
	return !diff.GreaterThan(tolerance.Amount)
}

// Scale returns the currency's declared decimal scale.
func (m Money) Scale() int { return CurrencyScale(m.Currency) }

// FormatMajor returns the major-unit string without a currency symbol,
// e.g. "49.00" for USD, "100" for JPY.
func (m Money) FormatMajor() string {
	return m.Amount.StringFixed(int32(m.Scale()))
}

// String returns a human-readable string with a currency symbol.
func (m Money) String() string {
	return currencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler. Amounts serialize as decimal
// strings, per the engine's serialization contract.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.FormatMajor(),
		Currency: m.Currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := New(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Money) round(d decimal.Decimal) Money {
	return Money{Amount: d.RoundBank(int32(m.Scale())), Currency: m.Currency}
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("types: money currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// currencySymbol returns the symbol for a currency code.
func currencySymbol(currency string) string {
	symbols := map[string]string{
		"usd": "$", "eur": "€", "gbp": "£", "jpy": "¥", "cad": "C$",
		"aud": "A$", "chf": "CHF ", "cny": "¥", "sek": "kr ", "nzd": "NZ$",
	}
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

// zeroDecimalCurrencies have no minor unit (no decimal places).
var zeroDecimalCurrencies = map[string]bool{
	"jpy": true, "krw": true, "vnd": true, "clp": true, "pyg": true, "idr": true,
}

// CurrencyScale returns the number of decimal places for a currency code.
// Defaults to scale 2 per spec §3.
func CurrencyScale(currency string) int {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return 0
	}
	return 2
}

// Sum calculates the sum of multiple Money values. All must share a currency.
func Sum(values ...Money) Money {
	if len(values) == 0 {
		return Zero("usd")
	}
	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
