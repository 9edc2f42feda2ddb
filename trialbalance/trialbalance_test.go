package trialbalance

import (
	"testing"

	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/openbal"
	"github.com/synthledger/engine/types"
)

func testPool() *account.Pool {
	return account.NewPool(account.StandardChartOfAccounts())
}

func TestCategorizeAccount(t *testing.T) {
	pool := testPool()
	tests := []struct {
		code string
		want Category
	}{
		{"1000", CategoryCurrentAssets},
		{"1500", CategoryNonCurrentAssets},
		{"2000", CategoryCurrentLiabilities},
		{"3000", CategoryEquity},
		{"4000", CategoryRevenue},
		{"5000", CategoryCostOfGoodsSold},
		{"6100", CategoryOperatingExpenses},
		{"6200", CategoryOtherExpenses},
	}
	for _, tt := range tests {
		a, ok := pool.ByCode(tt.code)
		if !ok {
			t.Fatalf("account %s not in standard chart", tt.code)
		}
		if got := CategorizeAccount(a); got != tt.want {
			t.Errorf("CategorizeAccount(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func entry(company string, fiscalYear, fiscalPeriod int, debitAccount, creditAccount string, amount types.Money) journal.Entry {
	return journal.Entry{
		Header: journal.Header{Company: company, Currency: amount.Currency, FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod},
		Lines: []journal.Line{
			{LineNo: 1, Account: debitAccount, DebitAmount: amount, CreditAmount: types.Zero(amount.Currency)},
			{LineNo: 2, Account: creditAccount, DebitAmount: types.Zero(amount.Currency), CreditAmount: amount},
		},
	}
}

func TestBuildIsAlwaysBalanced(t *testing.T) {
	pool := testPool()
	entries := []journal.Entry{
		entry("US01", 2025, 1, "1100", "4000", types.USD("500.00")),
		entry("US01", 2025, 1, "6100", "1000", types.USD("200.00")),
		entry("US01", 2025, 2, "1100", "4000", types.USD("300.00")),
	}
	opening := openbal.Balances{ByAccountCode: map[string]types.Money{
		"1000": types.USD("1000.00"),
		"3000": types.USD("1000.00"),
	}}

	tb := Build("US01", "usd", 2025, 2, pool, opening, entries)
	if !tb.IsBalanced() {
		t.Errorf("expected balanced trial balance, out of balance by %s", tb.OutOfBalance())
	}
	if !tb.TotalDebits().Equal(tb.TotalCredits()) {
		t.Errorf("total debits %s != total credits %s", tb.TotalDebits(), tb.TotalCredits())
	}
}

func TestBuildExcludesLaterPeriodsAndOtherCompanies(t *testing.T) {
	pool := testPool()
	entries := []journal.Entry{
		entry("US01", 2025, 1, "1100", "4000", types.USD("500.00")),
		entry("US01", 2025, 2, "1100", "4000", types.USD("300.00")), // excluded: later period
		entry("DE01", 2025, 1, "1100", "4000", types.USD("999.00")), // excluded: other company
	}

	tb := Build("US01", "usd", 2025, 1, pool, openbal.Balances{}, entries)
	revenue := tb.CategoryTotal(CategoryRevenue)
	if want := types.USD("500.00"); !revenue.Equal(want) {
		t.Errorf("CategoryTotal(Revenue) = %s, want %s", revenue, want)
	}
}

func TestNetIncome(t *testing.T) {
	pool := testPool()
	entries := []journal.Entry{
		entry("US01", 2025, 1, "1100", "4000", types.USD("1000.00")),
		entry("US01", 2025, 1, "5000", "1000", types.USD("400.00")),
		entry("US01", 2025, 1, "6100", "1000", types.USD("100.00")),
	}
	tb := Build("US01", "usd", 2025, 1, pool, openbal.Balances{}, entries)
	want := types.USD("500.00")
	if got := tb.NetIncome(); !got.Equal(want) {
		t.Errorf("NetIncome() = %s, want %s", got, want)
	}
}

func TestRatiosZeroOnZeroDenominator(t *testing.T) {
	pool := testPool()
	tb := Build("US01", "usd", 2025, 1, pool, openbal.Balances{}, nil)
	r := tb.Ratios()
	if r.CurrentRatio != 0 || r.GrossMargin != 0 {
		t.Errorf("expected zero ratios on an empty trial balance, got %+v", r)
	}
}
