package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   string
		currency string
		display  string
	}{
		{"USD", USD("49.00"), "49.00", "usd", "$49.00"},
		{"EUR", EUR("199.00"), "199.00", "eur", "€199.00"},
		{"Zero USD", Zero("usd"), "0.00", "usd", "$0.00"},
		{"JPY has no minor unit", mustMoney(t, "100", "jpy"), "100", "jpy", "¥100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.FormatMajor() != tt.amount {
				t.Errorf("FormatMajor: got %s, want %s", tt.money.FormatMajor(), tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func mustMoney(t *testing.T, amount, currency string) Money {
	t.Helper()
	m, err := New(amount, currency)
	if err != nil {
		t.Fatalf("New(%q, %q): %v", amount, currency, err)
	}
	return m
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return USD("1.00").Add(USD("2.00")) }, USD("3.00")},
		{"Subtract", func() Money { return USD("5.00").Subtract(USD("2.00")) }, USD("3.00")},
		{"MultiplyInt", func() Money { return USD("1.00").MultiplyInt(3) }, USD("3.00")},
		{"Divide", func() Money { return USD("9.00").Divide(decimal.NewFromInt(3)) }, USD("3.00")},
		{"Negate", func() Money { return USD("1.00").Negate() }, USD("-1.00")},
		{"Abs positive", func() Money { return USD("1.00").Abs() }, USD("1.00")},
		{"Abs negative", func() Money { return USD("-1.00").Abs() }, USD("1.00")},
		{"Complex", func() Money {
			return USD("10.00").Add(USD("5.00")).MultiplyInt(2).Subtract(USD("10.00"))
		}, USD("20.00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.op()
			if !got.Equal(tt.expected) {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestMoneyBankersRounding(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"rounds half to even down", "1.005", "1.00"},
		{"rounds half to even up", "1.015", "1.02"},
		{"exact value unaffected", "1.50", "1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustMoney(t, tt.amount, "usd")
			if got.FormatMajor() != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got.FormatMajor(), tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on currency mismatch")
		}
	}()
	USD("1.00").Add(EUR("1.00"))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	original := USD("42.50")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Money
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !decoded.Equal(original) {
		t.Errorf("round trip: got %s, want %s", decoded, original)
	}
}

func TestMoneyWithinTolerance(t *testing.T) {
	a := USD("100.00")
	b := USD("100.005")
	tolerance := USD("0.01")

	if !a.WithinTolerance(b, tolerance) {
		t.Error("expected values within tolerance to match")
	}

	c := USD("101.00")
	if a.WithinTolerance(c, tolerance) {
		t.Error("expected values outside tolerance to not match")
	}
}

func TestSum(t *testing.T) {
	got := Sum(USD("1.00"), USD("2.00"), USD("3.00"))
	want := USD("6.00")
	if !got.Equal(want) {
		t.Errorf("Sum: got %s, want %s", got, want)
	}
}
