package elimination

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/types"
)

func subsidiary(pct float64) company.Company {
	c := company.New("DE01", "German Sub", "EUR")
	return c.WithSubsidiary(id.NewCompanyID(), pct)
}

func TestICBalanceElimination(t *testing.T) {
	pair, err := intercompany.Build("US01", "DE01", intercompany.TxnGoodsSale, types.USD("1000.00"), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, err := ICBalanceElimination("GROUP", 2025, 1, pair)
	if err != nil {
		t.Fatalf("ICBalanceElimination: %v", err)
	}
	if !entry.IsBalanced() {
		t.Errorf("expected balanced elimination entry, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
	if entry.Type != TypeICBalances {
		t.Errorf("Type = %s, want %s", entry.Type, TypeICBalances)
	}
	if entry.AffectsPnL() {
		t.Error("ICBalances elimination should not affect P&L")
	}
}

func TestICRevenueExpenseElimination(t *testing.T) {
	pair, err := intercompany.Build("US01", "DE01", intercompany.TxnRoyalty, types.USD("500.00"), 0.1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entry, err := ICRevenueExpenseElimination("GROUP", 2025, 1, pair)
	if err != nil {
		t.Fatalf("ICRevenueExpenseElimination: %v", err)
	}
	if !entry.IsBalanced() {
		t.Errorf("expected balanced elimination entry, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
	if !entry.Type.AffectsPnL() {
		t.Error("ICRevenueExpense elimination should affect P&L")
	}
	if !entry.Type.IsRecurring() {
		t.Error("ICRevenueExpense elimination should be recurring")
	}
}

func TestInvestmentEquityElimination(t *testing.T) {
	sub := subsidiary(80)
	equity := types.USD("1000000.00")
	entry, err := InvestmentEquityElimination("GROUP", "US01", 2025, 1, sub, equity)
	if err != nil {
		t.Fatalf("InvestmentEquityElimination: %v", err)
	}
	if !entry.IsBalanced() {
		t.Errorf("expected balanced elimination entry, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
	if len(entry.Lines) != 3 {
		t.Fatalf("expected 3 lines (subsidiary equity, investment, NCI) with 80%% ownership, got %d", len(entry.Lines))
	}
	if entry.Type.IsRecurring() {
		t.Error("InvestmentEquity elimination is a one-time entry, should not be recurring")
	}
}

func TestInvestmentEquityEliminationFullOwnershipHasNoNCILine(t *testing.T) {
	sub := subsidiary(100)
	equity := types.USD("1000000.00")
	entry, err := InvestmentEquityElimination("GROUP", "US01", 2025, 1, sub, equity)
	if err != nil {
		t.Fatalf("InvestmentEquityElimination: %v", err)
	}
	if len(entry.Lines) != 2 {
		t.Errorf("expected 2 lines with 100%% ownership (no NCI line), got %d", len(entry.Lines))
	}
}

func TestInvestmentEquityEliminationRequiresOwnership(t *testing.T) {
	standalone := company.New("US01", "US Parent", "USD")
	if _, err := InvestmentEquityElimination("GROUP", "HOLDCO", 2025, 1, standalone, types.USD("1.00")); err == nil {
		t.Error("expected error for a subsidiary with no ownership link")
	}
}

func TestMinorityInterestEliminationNetIncome(t *testing.T) {
	sub := subsidiary(75)
	entry, err := MinorityInterestElimination("GROUP", 2025, 1, sub, types.USD("400.00"))
	if err != nil {
		t.Fatalf("MinorityInterestElimination: %v", err)
	}
	if !entry.IsBalanced() {
		t.Errorf("expected balanced elimination entry, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
	want := types.USD("100.00") // 25% NCI share of 400
	if !entry.TotalDebit().Equal(want) {
		t.Errorf("NCI share = %s, want %s", entry.TotalDebit(), want)
	}
}

func TestMinorityInterestEliminationNetLoss(t *testing.T) {
	sub := subsidiary(75)
	entry, err := MinorityInterestElimination("GROUP", 2025, 1, sub, types.USD("-400.00"))
	if err != nil {
		t.Fatalf("MinorityInterestElimination: %v", err)
	}
	if !entry.IsBalanced() {
		t.Errorf("expected balanced elimination entry even on a net loss, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
}

func TestCurrencyTranslationElimination(t *testing.T) {
	sub := subsidiary(100)
	snapshot := fx.NetAssetSnapshot{
		OpeningNetAssetsLocal: types.EUR("1000000.00"),
		ClosingNetAssetsLocal: types.EUR("1100000.00"),
		NetIncomeLocal:        types.EUR("100000.00"),
		OpeningRate:           decimal.NewFromFloat(1.05),
		ClosingRate:           decimal.NewFromFloat(1.10),
		AverageRate:           decimal.NewFromFloat(1.07),
	}
	entry := CurrencyTranslationElimination("GROUP", 2025, 1, sub, snapshot, "USD")
	if !entry.IsBalanced() {
		t.Errorf("expected balanced CTA elimination, debits=%s credits=%s", entry.TotalDebit(), entry.TotalCredit())
	}
	if entry.Type != TypeCurrencyTranslation {
		t.Errorf("Type = %s, want %s", entry.Type, TypeCurrencyTranslation)
	}
	if len(entry.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(entry.Lines))
	}
}

func TestJournalIsBalanced(t *testing.T) {
	pair, err := intercompany.Build("US01", "DE01", intercompany.TxnGoodsSale, types.USD("1000.00"), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	balances, err := ICBalanceElimination("GROUP", 2025, 1, pair)
	if err != nil {
		t.Fatalf("ICBalanceElimination: %v", err)
	}
	revExp, err := ICRevenueExpenseElimination("GROUP", 2025, 1, pair)
	if err != nil {
		t.Fatalf("ICRevenueExpenseElimination: %v", err)
	}

	j := NewJournal("GROUP", 2025, 1)
	if j.Status != StatusDraft {
		t.Errorf("new journal status = %s, want %s", j.Status, StatusDraft)
	}
	j.Add(balances)
	j.Add(revExp)
	if !j.IsBalanced() {
		t.Error("expected journal of two individually-balanced entries to be balanced")
	}
}

func TestJournalUnbalancedIfAnyEntryUnbalanced(t *testing.T) {
	j := NewJournal("GROUP", 2025, 1)
	j.Add(Entry{Lines: []Line{
		{Account: "1150", DebitAmount: types.USD("100.00"), CreditAmount: types.Zero("USD")},
		{Account: "2050", DebitAmount: types.Zero("USD"), CreditAmount: types.USD("90.00")},
	}})
	if j.IsBalanced() {
		t.Error("expected journal with an out-of-balance entry to be unbalanced")
	}
}
