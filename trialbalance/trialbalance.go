// Package trialbalance implements the per-company, per-period trial
// balance report: every posted account's ending balance, rolled up into
// balance-sheet/income-statement categories, checked for debit/credit
// equality. It supplements §4.6.1's "balance-sheet equation holds per
// period" and "subledger-to-GL reconciliation completeness" checks with
// a concrete artifact rather than leaving them as bare boolean
// evaluator outputs.
package trialbalance

import (
	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/openbal"
	"github.com/synthledger/engine/types"
)

// Category is the balance-sheet/income-statement rollup bucket an
// account's ending balance is grouped into.
type Category string

// Rollup categories.
const (
	CategoryCurrentAssets      Category = "CurrentAssets"
	CategoryNonCurrentAssets   Category = "NonCurrentAssets"
	CategoryCurrentLiabilities Category = "CurrentLiabilities"
	CategoryEquity             Category = "Equity"
	CategoryRevenue            Category = "Revenue"
	CategoryCostOfGoodsSold    Category = "CostOfGoodsSold"
	CategoryOperatingExpenses  Category = "OperatingExpenses"
	CategoryOtherExpenses      Category = "OtherExpenses"
)

// CategorizeAccount buckets a onto one of Category, combining its
// account.Type with an account-code split for current vs non-current
// assets and COGS/operating/other expenses — the mechanical detail this
// chart's coarse 8-value account.Type alone doesn't carry. This mirrors
// the 2-digit account-code-prefix AccountCategory derivation of the
// trial-balance model this package is grounded on, adapted to start from
// account.Type (already known per account) rather than re-deriving the
// broad class from the prefix alone.
func CategorizeAccount(a account.Account) Category {
	switch a.Type {
	case account.TypeAsset, account.TypeContraAsset:
		if len(a.Code) >= 2 && a.Code[:2] == "15" {
			return CategoryNonCurrentAssets
		}
		return CategoryCurrentAssets
	case account.TypeLiability, account.TypeContraLiability:
		return CategoryCurrentLiabilities
	case account.TypeEquity, account.TypeContraEquity:
		return CategoryEquity
	case account.TypeRevenue:
		return CategoryRevenue
	case account.TypeExpense:
		switch a.Code {
		case "5000", "5050":
			return CategoryCostOfGoodsSold
		case "6200":
			return CategoryOtherExpenses
		default:
			return CategoryOperatingExpenses
		}
	default:
		return CategoryOperatingExpenses
	}
}

// Line is one account's trial-balance row: its ending balance, split
// across the debit/credit columns by natural sign rather than by
// NormalSide, so a contra account sitting on the "wrong" side (a fully
// depreciated asset, an overdrawn equity account) still reports
// correctly instead of forcing a negative column value.
type Line struct {
	AccountCode string
	Description string
	Category    Category
	NormalSide  account.NormalSide
	Debit       types.Money
	Credit      types.Money
}

// TrialBalance is the balance report for one company as of one fiscal
// period, accumulating every prior period's opening balance plus
// activity through FiscalPeriod (inclusive) within FiscalYear.
type TrialBalance struct {
	Company      string
	Currency     string
	FiscalYear   int
	FiscalPeriod int
	Lines        []Line
}

// Build computes the trial balance for companyCode as of fiscalPeriod
// within fiscalYear, from pool's chart of accounts, opening carries
// opening, and the candidate entries (only those matching company,
// fiscal year, and period ≤ fiscalPeriod are applied).
func Build(companyCode, currency string, fiscalYear, fiscalPeriod int, pool *account.Pool, opening openbal.Balances, entries []journal.Entry) TrialBalance {
	zero := types.Zero(currency)
	net := make(map[string]types.Money, pool.Len())
	for _, a := range pool.All() {
		net[a.Code] = zero
	}

	for _, e := range entries {
		if e.Header.Company != companyCode || e.Header.FiscalYear != fiscalYear || e.Header.FiscalPeriod > fiscalPeriod {
			continue
		}
		for _, l := range e.Lines {
			cur, ok := net[l.Account]
			if !ok {
				cur = zero
			}
			net[l.Account] = cur.Add(l.DebitAmount).Subtract(l.CreditAmount)
		}
	}

	lines := make([]Line, 0, pool.Len())
	for _, a := range pool.All() {
		balance := net[a.Code]
		if opening.ByAccountCode != nil {
			if ob, ok := opening.ByAccountCode[a.Code]; ok {
				if a.NormalSide == account.Debit {
					balance = balance.Add(ob)
				} else {
					balance = balance.Subtract(ob)
				}
			}
		}

		line := Line{
			AccountCode: a.Code,
			Description: a.Description,
			Category:    CategorizeAccount(a),
			NormalSide:  a.NormalSide,
			Debit:       zero,
			Credit:      zero,
		}
		if balance.IsNegative() {
			line.Credit = balance.Negate()
		} else {
			line.Debit = balance
		}
		lines = append(lines, line)
	}

	return TrialBalance{Company: companyCode, Currency: currency, FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod, Lines: lines}
}

// TotalDebits sums every line's debit column.
func (tb TrialBalance) TotalDebits() types.Money {
	total := types.Zero(tb.Currency)
	for _, l := range tb.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums every line's credit column.
func (tb TrialBalance) TotalCredits() types.Money {
	total := types.Zero(tb.Currency)
	for _, l := range tb.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// OutOfBalance returns TotalDebits − TotalCredits; zero when IsBalanced.
func (tb TrialBalance) OutOfBalance() types.Money {
	return tb.TotalDebits().Subtract(tb.TotalCredits())
}

// IsBalanced reports whether total debits equal total credits within the
// currency's minor-unit tolerance, mirroring journal.Entry.IsBalanced
// and openbal's balance-sheet-equation check at the report level.
func (tb TrialBalance) IsBalanced() bool {
	tolerance := types.FromMinor(1, tb.Currency)
	return tb.TotalDebits().WithinTolerance(tb.TotalCredits(), tolerance)
}

// CategoryTotal sums every line in category c, signed so that a normal
// balance in that category's dominant NormalSide is positive (e.g.
// Revenue's total is positive when credits exceed debits).
func (tb TrialBalance) CategoryTotal(c Category) types.Money {
	total := types.Zero(tb.Currency)
	for _, l := range tb.Lines {
		if l.Category != c {
			continue
		}
		if l.NormalSide == account.Debit {
			total = total.Add(l.Debit).Subtract(l.Credit)
		} else {
			total = total.Add(l.Credit).Subtract(l.Debit)
		}
	}
	return total
}

// NetIncome returns Revenue − COGS − OperatingExpenses − OtherExpenses
// for the period covered by this trial balance.
func (tb TrialBalance) NetIncome() types.Money {
	return tb.CategoryTotal(CategoryRevenue).
		Subtract(tb.CategoryTotal(CategoryCostOfGoodsSold)).
		Subtract(tb.CategoryTotal(CategoryOperatingExpenses)).
		Subtract(tb.CategoryTotal(CategoryOtherExpenses))
}

// Ratios are the balance-coherence checks this trial balance can answer
// directly from its category totals — a subset of the closed set of
// financial-ratio checks (DSO/DPO/current ratio/margins/etc.) the
// balance-coherence validator this package is grounded on defines.
// Ratios outside this subset (DSO, DPO, DIO, cash-conversion cycle) need
// an annualized flow amount the trial balance alone doesn't carry and
// are left to the caller, which already has AnnualRevenue/AnnualCOGS
// from the OpeningBalanceSpec.
type Ratios struct {
	CurrentRatio    float64
	GrossMargin     float64
	OperatingMargin float64
	NetMargin       float64
}

// Ratios computes the period's balance-coherence ratios, leaving a ratio
// at its zero value when the denominator is zero rather than dividing.
func (tb TrialBalance) Ratios() Ratios {
	currentAssets := tb.CategoryTotal(CategoryCurrentAssets)
	currentLiabilities := tb.CategoryTotal(CategoryCurrentLiabilities)
	revenue := tb.CategoryTotal(CategoryRevenue)
	cogs := tb.CategoryTotal(CategoryCostOfGoodsSold)
	opex := tb.CategoryTotal(CategoryOperatingExpenses)

	var r Ratios
	if !currentLiabilities.IsZero() {
		r.CurrentRatio = divFloat(currentAssets.Amount, currentLiabilities.Amount)
	}
	if !revenue.IsZero() {
		r.GrossMargin = divFloat(revenue.Subtract(cogs).Amount, revenue.Amount)
		r.OperatingMargin = divFloat(revenue.Subtract(cogs).Subtract(opex).Amount, revenue.Amount)
		r.NetMargin = divFloat(tb.NetIncome().Amount, revenue.Amount)
	}
	return r
}

func divFloat(a, b decimal.Decimal) float64 {
	f, _ := a.Div(b).Float64()
	return f
}
