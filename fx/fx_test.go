package fx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLookupSameCurrencyIsOne(t *testing.T) {
	table := NewTable("usd")
	rate, err := table.Lookup("usd", "usd", RateSpot, time.Now())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected rate 1 for same currency, got %s", rate)
	}
}

func TestLookupDirect(t *testing.T) {
	table := NewTable("usd")
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table.Add(Rate{FromCurrency: "eur", ToCurrency: "usd", Type: RateSpot, EffectiveDate: date, Value: decimal.NewFromFloat(1.1)})

	rate, err := table.Lookup("eur", "usd", RateSpot, date)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(1.1)) {
		t.Errorf("got %s, want 1.1", rate)
	}
}

func TestLookupInverseFallback(t *testing.T) {
	table := NewTable("usd")
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table.Add(Rate{FromCurrency: "usd", ToCurrency: "eur", Type: RateSpot, EffectiveDate: date, Value: decimal.NewFromFloat(0.9)})

	rate, err := table.Lookup("eur", "usd", RateSpot, date)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := decimal.NewFromInt(1).Div(decimal.NewFromFloat(0.9))
	if !rate.Equal(want) {
		t.Errorf("got %s, want %s", rate, want)
	}
}

func TestLookupMissingReturnsError(t *testing.T) {
	table := NewTable("usd")
	_, err := table.Lookup("gbp", "jpy", RateSpot, time.Now())
	if err == nil {
		t.Error("expected missing-rate error")
	}
}

func TestLookupTriangulatesThroughBase(t *testing.T) {
	table := NewTable("usd")
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table.Add(Rate{FromCurrency: "eur", ToCurrency: "usd", Type: RateSpot, EffectiveDate: date, Value: decimal.NewFromFloat(1.1)})
	table.Add(Rate{FromCurrency: "usd", ToCurrency: "gbp", Type: RateSpot, EffectiveDate: date, Value: decimal.NewFromFloat(0.8)})

	rate, err := table.Lookup("eur", "gbp", RateSpot, date)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := decimal.NewFromFloat(1.1).Mul(decimal.NewFromFloat(0.8))
	if !rate.Equal(want) {
		t.Errorf("got %s, want %s", rate, want)
	}
}
