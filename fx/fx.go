// Package fx implements FX rate handling (§4.3.5): the rate table,
// revaluation, and Currency Translation Adjustment (CTA).
package fx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/types"
)

// RateType is the closed set of FX rate types named in §3.
type RateType string

// Rate types.
const (
	RateSpot       RateType = "Spot"
	RateClosing    RateType = "Closing"
	RateAverage    RateType = "Average"
	RateHistorical RateType = "Historical"
	RateBudget     RateType = "Budget"
)

// Rate is one FX rate table entry.
type Rate struct {
	ID            id.ID
	FromCurrency  string
	ToCurrency    string
	Type          RateType
	EffectiveDate time.Time
	Value         decimal.Decimal
	ValidUntil    *time.Time
}

// Table is the FX rate table used by one run. Lookups key on
// (from, to, type, effective date) and fall back per §4.3.5/§7's
// "MissingRate" fallback rule: prefer inverse, then base-currency
// triangulation, else raise a configured MissingRate condition.
type Table struct {
	baseCurrency string
	rates        []Rate
}

// NewTable constructs an FX table for the given base currency.
func NewTable(baseCurrency string) *Table {
	return &Table{baseCurrency: baseCurrency}
}

// Add inserts a rate into the table.
func (t *Table) Add(r Rate) { t.rates = append(t.rates, r) }

// Lookup finds the rate(from -> to) of the given type effective on or
// before date, with the most recent effective_date winning. Same-
// currency pairs always return rate 1 with no lookup, per §3's invariant.
func (t *Table) Lookup(from, to string, rateType RateType, date time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if r, ok := t.findDirect(from, to, rateType, date); ok {
		return r, nil
	}

	// Prefer inverse of the reciprocal pair.
	if r, ok := t.findDirect(to, from, rateType, date); ok {
		if r.IsZero() {
			return decimal.Zero, fmt.Errorf("fx: %w: inverse rate %s->%s is zero", ErrMissingRate, to, from)
		}
		return decimal.NewFromInt(1).Div(r), nil
	}

	// Triangulate through the base currency.
	if from != t.baseCurrency && to != t.baseCurrency {
		fromBase, ok1 := t.findDirect(from, t.baseCurrency, rateType, date)
		baseTo, ok2 := t.findDirect(t.baseCurrency, to, rateType, date)
		if ok1 && ok2 {
			return fromBase.Mul(baseTo), nil
		}
	}

	return decimal.Zero, fmt.Errorf("fx: %w: %s->%s type %s as of %v", ErrMissingRate, from, to, rateType, date)
}

func (t *Table) findDirect(from, to string, rateType RateType, date time.Time) (decimal.Decimal, bool) {
	var best *Rate
	for i := range t.rates {
		r := &t.rates[i]
		if r.FromCurrency != from || r.ToCurrency != to || r.Type != rateType {
			continue
		}
		if r.EffectiveDate.After(date) {
			continue
		}
		if r.ValidUntil != nil && r.ValidUntil.Before(date) {
			continue
		}
		if best == nil || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
		}
	}
	if best == nil {
		return decimal.Zero, false
	}
	return best.Value, true
}

// ErrMissingRate is returned when no rate can be found or triangulated.
var ErrMissingRate = fmt.Errorf("fx: rate not found")

// Convert converts an amount from its native currency to toCurrency
// using the looked-up rate, producing local_amount per §4.3.5.
func Convert(amount types.Money, toCurrency string, table *Table, rateType RateType, date time.Time) (types.Money, error) {
	rate, err := table.Lookup(amount.Currency, toCurrency, rateType, date)
	if err != nil {
		return types.Money{}, err
	}
	converted := amount.Amount.Mul(rate)
	m, err := types.New(converted.String(), toCurrency)
	if err != nil {
		return types.Money{}, err
	}
	return m, nil
}

// NetAssetSnapshot captures the local-currency net asset position used
// by the CTA formula.
type NetAssetSnapshot struct {
	OpeningNetAssetsLocal types.Money
	ClosingNetAssetsLocal types.Money
	NetIncomeLocal        types.Money
	OpeningRate           decimal.Decimal
	ClosingRate           decimal.Decimal
	AverageRate           decimal.Decimal
}

// CTA computes the Currency Translation Adjustment under the
// current-rate method, per §4.3.5:
//
//	CTA = (closing_net_assets_local × closing_rate)
//	    − (opening_net_assets_local × opening_rate)
//	    − (net_income_local × average_rate)
func CTA(s NetAssetSnapshot, parentCurrency string) types.Money {
	closing := s.ClosingNetAssetsLocal.Multiply(s.ClosingRate)
	opening := s.OpeningNetAssetsLocal.Multiply(s.OpeningRate)
	income := s.NetIncomeLocal.Multiply(s.AverageRate)
	return closing.Subtract(opening).Subtract(income)
}

// RealizedGainLoss computes realized gain/loss at settlement, per
// §4.3.5: (settlement_rate − transaction_rate) × amount.
func RealizedGainLoss(amount types.Money, transactionRate, settlementRate decimal.Decimal) types.Money {
	return amount.Multiply(settlementRate.Sub(transactionRate))
}
