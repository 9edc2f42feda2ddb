package ledgergen

import (
	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/elimination"
	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/masterdata"
	"github.com/synthledger/engine/openbal"
	"github.com/synthledger/engine/trialbalance"
	"github.com/synthledger/engine/types"
)

// chartPool is the representative chart-of-accounts lookup every trial
// balance and elimination entry is built against.
var chartPool = account.NewPool(account.StandardChartOfAccounts())

// buildTrialBalances computes, for every company in the pool, the trial
// balance as of the final fiscal period this run's date range reaches.
func buildTrialBalances(pools *masterdata.Pools, opts Options, result *Result) map[string]trialbalance.TrialBalance {
	out := make(map[string]trialbalance.TrialBalance, len(pools.Companies.All()))
	asOf := opts.End.AddDate(0, 0, -1)
	for _, comp := range pools.Companies.All() {
		fiscalYear, fiscalPeriod := comp.FiscalCalendar.FiscalYearAndPeriod(asOf.Year(), int(asOf.Month()))
		out[comp.Code] = trialbalance.Build(comp.Code, comp.BaseCurrency, fiscalYear, fiscalPeriod, chartPool, result.OpeningBalances[comp.Code], result.Entries)
	}
	return out
}

// consolidationEntityFor returns the common parent of the given company
// codes, if one of them is an owned subsidiary, else falls back to the
// first code — every elimination needs a reporting entity to post
// against even when no explicit group parent is modeled.
func consolidationEntityFor(pools *masterdata.Pools, companyCodes ...string) string {
	for _, code := range companyCodes {
		c, ok := pools.Companies.ByCode(code)
		if !ok || c.Ownership == nil {
			continue
		}
		if parent, ok := pools.Companies.ByID(c.Ownership.ParentID); ok {
			return parent.Code
		}
	}
	return companyCodes[0]
}

// buildEliminations derives every consolidation elimination this run's
// intercompany matched pairs and ownership links support: IC balance and
// IC revenue/expense eliminations for every matched pair, plus
// investment/equity, minority-interest, and (for a foreign subsidiary)
// currency-translation eliminations for every owned company, posted
// against its parent as the consolidation entity.
func buildEliminations(pools *masterdata.Pools, opts Options, result *Result) []elimination.Entry {
	var entries []elimination.Entry

	for _, pair := range result.ICPairs {
		consolidationEntity := consolidationEntityFor(pools, pair.SellerCompany, pair.BuyerCompany)
		fiscalYear, fiscalPeriod := 0, 0
		if tb, ok := result.TrialBalances[pair.SellerCompany]; ok {
			fiscalYear, fiscalPeriod = tb.FiscalYear, tb.FiscalPeriod
		}

		if e, err := elimination.ICBalanceElimination(consolidationEntity, fiscalYear, fiscalPeriod, pair); err == nil {
			entries = append(entries, e)
		}
		if e, err := elimination.ICRevenueExpenseElimination(consolidationEntity, fiscalYear, fiscalPeriod, pair); err == nil {
			entries = append(entries, e)
		}
	}

	for _, sub := range pools.Companies.All() {
		if sub.Ownership == nil {
			continue
		}
		parent, ok := pools.Companies.ByID(sub.Ownership.ParentID)
		if !ok {
			continue
		}
		subTB, ok := result.TrialBalances[sub.Code]
		if !ok {
			continue
		}

		subsidiaryEquity := subTB.CategoryTotal(trialbalance.CategoryEquity)
		if e, err := elimination.InvestmentEquityElimination(parent.Code, parent.Code, subTB.FiscalYear, subTB.FiscalPeriod, sub, subsidiaryEquity); err == nil {
			entries = append(entries, e)
		}

		netIncome := subTB.NetIncome()
		if e, err := elimination.MinorityInterestElimination(parent.Code, subTB.FiscalYear, subTB.FiscalPeriod, sub, netIncome); err == nil {
			entries = append(entries, e)
		}

		if sub.BaseCurrency != parent.BaseCurrency {
			if snapshot, ok := buildNetAssetSnapshot(sub, subsidiaryEquity, netIncome, result.OpeningBalances[sub.Code], result.FXTable, parent.BaseCurrency, opts); ok {
				entries = append(entries, elimination.CurrencyTranslationElimination(parent.Code, subTB.FiscalYear, subTB.FiscalPeriod, sub, snapshot, parent.BaseCurrency))
			}
		}
	}

	return entries
}

// buildNetAssetSnapshot assembles the fx.NetAssetSnapshot a currency-
// translation elimination needs: opening equity from sub's opening
// balance allocation, closing equity and net income from its trial
// balance, and the opening/closing/average rates between its currency
// and parentCurrency looked up from table over the run's date range.
// Returns false if any required rate can't be found, rather than
// translating at a zero rate.
func buildNetAssetSnapshot(sub company.Company, closingEquity, netIncome types.Money, opening openbal.Balances, table *fx.Table, parentCurrency string, opts Options) (fx.NetAssetSnapshot, bool) {
	openingEquity := types.Zero(sub.BaseCurrency)
	if opening.ByAccountCode != nil {
		if eq, ok := opening.ByAccountCode["3000"]; ok {
			openingEquity = eq
		}
	}

	openingRate, err := table.Lookup(sub.BaseCurrency, parentCurrency, fx.RateHistorical, opts.Start)
	if err != nil {
		return fx.NetAssetSnapshot{}, false
	}
	closingRate, err := table.Lookup(sub.BaseCurrency, parentCurrency, fx.RateClosing, opts.End)
	if err != nil {
		return fx.NetAssetSnapshot{}, false
	}
	midpoint := opts.Start.Add(opts.End.Sub(opts.Start) / 2)
	averageRate, err := table.Lookup(sub.BaseCurrency, parentCurrency, fx.RateAverage, midpoint)
	if err != nil {
		return fx.NetAssetSnapshot{}, false
	}

	return fx.NetAssetSnapshot{
		OpeningNetAssetsLocal: openingEquity,
		ClosingNetAssetsLocal: closingEquity,
		NetIncomeLocal:        netIncome,
		OpeningRate:           openingRate,
		ClosingRate:           closingRate,
		AverageRate:           averageRate,
	}, true
}
