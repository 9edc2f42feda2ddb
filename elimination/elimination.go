// Package elimination implements consolidation elimination entries: the
// adjustments a group applies at consolidation to remove intercompany
// balances and activity, and to recognize the equity split between a
// parent's investment and any non-controlling interest, so that a
// consolidated financial statement doesn't double-count intercompany
// transactions or carry a subsidiary's legal-entity equity forward
// unchanged. This supplements §3's parent/subsidiary Ownership model and
// §4.3.3's intercompany matched pairs with the consolidation step the
// distilled spec names the building blocks for but doesn't itself
// produce.
package elimination

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/types"
)

// Type is the closed set of elimination kinds this package produces. The
// original model's elimination taxonomy also names ICProfitInInventory,
// ICProfitInFixedAssets, ICDividends, ICLoans, ICInterest, and Goodwill;
// those need unrealized-profit, intercompany-loan, and purchase-price-
// allocation data this engine's domain model doesn't carry (there is no
// inventory-markup, loan-amortization-schedule, or acquisition-goodwill
// concept anywhere in the master data or ledger generator), so they are
// out of scope here rather than approximated from unrelated inputs.
type Type string

// Elimination types.
const (
	TypeICBalances          Type = "ICBalances"
	TypeICRevenueExpense    Type = "ICRevenueExpense"
	TypeInvestmentEquity    Type = "InvestmentEquity"
	TypeMinorityInterest    Type = "MinorityInterest"
	TypeCurrencyTranslation Type = "CurrencyTranslation"
)

// AffectsPnL reports whether this elimination type adjusts consolidated
// income-statement accounts, as opposed to balance-sheet-only accounts.
func (t Type) AffectsPnL() bool {
	switch t {
	case TypeICRevenueExpense, TypeMinorityInterest:
		return true
	default:
		return false
	}
}

// IsRecurring reports whether this elimination must be re-posted every
// consolidation period, as opposed to a one-time entry booked once (at
// acquisition, for the investment/equity elimination).
func (t Type) IsRecurring() bool {
	switch t {
	case TypeICBalances, TypeICRevenueExpense, TypeMinorityInterest, TypeCurrencyTranslation:
		return true
	default:
		return false
	}
}

// Line is one side of an elimination entry.
type Line struct {
	Company      string
	Account      string
	DebitAmount  types.Money
	CreditAmount types.Money
	Description  string
}

// Entry is one balanced consolidation elimination: two or more lines,
// posted against the consolidation entity rather than any single
// operating company, tagged with the companies it relates to.
type Entry struct {
	EntryID             id.ID
	Type                Type
	ConsolidationEntity string
	FiscalYear          int
	FiscalPeriod        int
	RelatedCompanies    []string
	Description         string
	Lines               []Line
}

// TotalDebit sums every line's debit amount.
func (e Entry) TotalDebit() types.Money {
	if len(e.Lines) == 0 {
		return types.Money{}
	}
	total := types.Zero(e.Lines[0].DebitAmount.Currency)
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredit sums every line's credit amount.
func (e Entry) TotalCredit() types.Money {
	if len(e.Lines) == 0 {
		return types.Money{}
	}
	total := types.Zero(e.Lines[0].DebitAmount.Currency)
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// IsBalanced reports whether the entry's debit and credit lines sum to
// the same amount, the elimination-level analogue of journal.Entry's P1.
func (e Entry) IsBalanced() bool {
	if len(e.Lines) == 0 {
		return true
	}
	tolerance := types.FromMinor(1, e.Lines[0].DebitAmount.Currency)
	return e.TotalDebit().WithinTolerance(e.TotalCredit(), tolerance)
}

func minMoney(a, b types.Money) types.Money {
	if a.GreaterThan(b) {
		return b
	}
	return a
}

// ICBalanceElimination eliminates the intercompany receivable/payable
// booked on pair. The eliminated amount is the lesser of the two sides
// rather than assumed-equal, so a withholding-tax-driven or otherwise
// unmatched portion survives consolidation instead of over-eliminating
// one side — the same capping the aggregated-IC-balance comparison this
// is grounded on applies before calling an amount eliminable.
func ICBalanceElimination(consolidationEntity string, fiscalYear, fiscalPeriod int, pair intercompany.MatchedPair) (Entry, error) {
	if len(pair.SellerDoc.Lines) == 0 || len(pair.BuyerDoc.Lines) < 2 {
		return Entry{}, fmt.Errorf("elimination: matched pair %s missing receivable/payable lines", pair.ICReference)
	}
	receivable := pair.SellerDoc.Lines[0]
	payable := pair.BuyerDoc.Lines[1]
	amount := minMoney(receivable.DebitAmount, payable.CreditAmount)
	zero := types.Zero(amount.Currency)

	return Entry{
		EntryID:             id.New(id.PrefixElimination),
		Type:                TypeICBalances,
		ConsolidationEntity: consolidationEntity,
		FiscalYear:          fiscalYear,
		FiscalPeriod:        fiscalPeriod,
		RelatedCompanies:    []string{pair.SellerCompany, pair.BuyerCompany},
		Description:         fmt.Sprintf("Eliminate IC balance between %s and %s", pair.SellerCompany, pair.BuyerCompany),
		Lines: []Line{
			{Company: pair.BuyerCompany, Account: payable.Account, DebitAmount: amount, CreditAmount: zero, Description: "Eliminate IC payable"},
			{Company: pair.SellerCompany, Account: receivable.Account, DebitAmount: zero, CreditAmount: amount, Description: "Eliminate IC receivable"},
		},
	}, nil
}

// ICRevenueExpenseElimination eliminates the intercompany revenue/expense
// booked on pair, the P&L-affecting counterpart to ICBalanceElimination.
// The seller's revenue line is always the last line of its entry (net
// receivable and any withholding-tax line precede it); the buyer's
// expense line is always its first.
func ICRevenueExpenseElimination(consolidationEntity string, fiscalYear, fiscalPeriod int, pair intercompany.MatchedPair) (Entry, error) {
	if len(pair.SellerDoc.Lines) == 0 || len(pair.BuyerDoc.Lines) == 0 {
		return Entry{}, fmt.Errorf("elimination: matched pair %s missing revenue/expense lines", pair.ICReference)
	}
	revenue := pair.SellerDoc.Lines[len(pair.SellerDoc.Lines)-1]
	expense := pair.BuyerDoc.Lines[0]
	amount := minMoney(revenue.CreditAmount, expense.DebitAmount)
	zero := types.Zero(amount.Currency)

	return Entry{
		EntryID:             id.New(id.PrefixElimination),
		Type:                TypeICRevenueExpense,
		ConsolidationEntity: consolidationEntity,
		FiscalYear:          fiscalYear,
		FiscalPeriod:        fiscalPeriod,
		RelatedCompanies:    []string{pair.SellerCompany, pair.BuyerCompany},
		Description:         fmt.Sprintf("Eliminate IC revenue/expense between %s and %s", pair.SellerCompany, pair.BuyerCompany),
		Lines: []Line{
			{Company: pair.SellerCompany, Account: revenue.Account, DebitAmount: amount, CreditAmount: zero, Description: "Eliminate IC revenue"},
			{Company: pair.BuyerCompany, Account: expense.Account, DebitAmount: zero, CreditAmount: amount, Description: "Eliminate IC expense"},
		},
	}, nil
}

// InvestmentEquityElimination eliminates the parent's investment account
// against the subsidiary's total equity at consolidation, splitting that
// equity between the parent's ownership share (eliminated against the
// investment account) and any remaining non-controlling interest,
// recognized on the consolidation entity's books. This is a one-time
// elimination per subsidiary, re-posted only if ownership percentage or
// the underlying equity changes — unlike MinorityInterestElimination,
// which is recurring.
func InvestmentEquityElimination(consolidationEntity, parentCompany string, fiscalYear, fiscalPeriod int, subsidiary company.Company, subsidiaryEquity types.Money) (Entry, error) {
	if subsidiary.Ownership == nil {
		return Entry{}, fmt.Errorf("elimination: %s has no ownership link", subsidiary.Code)
	}
	zero := types.Zero(subsidiaryEquity.Currency)
	pct := decimal.NewFromFloat(subsidiary.Ownership.Percentage / 100)
	investment := subsidiaryEquity.Multiply(pct)
	minority := subsidiaryEquity.Subtract(investment)

	lines := []Line{
		{Company: subsidiary.Code, Account: "3000", DebitAmount: subsidiaryEquity, CreditAmount: zero, Description: "Eliminate subsidiary equity"},
		{Company: parentCompany, Account: "1510", DebitAmount: zero, CreditAmount: investment, Description: "Eliminate investment in subsidiary"},
	}
	if !minority.IsZero() {
		lines = append(lines, Line{Company: consolidationEntity, Account: "3500", DebitAmount: zero, CreditAmount: minority, Description: "Recognize non-controlling interest"})
	}

	return Entry{
		EntryID:             id.New(id.PrefixElimination),
		Type:                TypeInvestmentEquity,
		ConsolidationEntity: consolidationEntity,
		FiscalYear:          fiscalYear,
		FiscalPeriod:        fiscalPeriod,
		RelatedCompanies:    []string{parentCompany, subsidiary.Code},
		Description:         fmt.Sprintf("Eliminate investment in %s against its equity", subsidiary.Code),
		Lines:               lines,
	}, nil
}

// MinorityInterestElimination recognizes the non-controlling interest's
// share of a subsidiary's net income (or loss) for one period, re-posted
// every period unlike InvestmentEquityElimination's one-time entry.
func MinorityInterestElimination(consolidationEntity string, fiscalYear, fiscalPeriod int, subsidiary company.Company, subsidiaryNetIncome types.Money) (Entry, error) {
	if subsidiary.Ownership == nil {
		return Entry{}, fmt.Errorf("elimination: %s has no ownership link", subsidiary.Code)
	}
	zero := types.Zero(subsidiaryNetIncome.Currency)
	minorityPct := decimal.NewFromFloat(1 - subsidiary.Ownership.Percentage/100)
	share := subsidiaryNetIncome.Multiply(minorityPct)

	var lines []Line
	if share.IsNegative() {
		amount := share.Abs()
		lines = []Line{
			{Company: consolidationEntity, Account: "3500", DebitAmount: amount, CreditAmount: zero, Description: "Reduce non-controlling interest for its share of net loss"},
			{Company: consolidationEntity, Account: "3100", DebitAmount: zero, CreditAmount: amount, Description: "Allocate NCI share of net loss"},
		}
	} else {
		lines = []Line{
			{Company: consolidationEntity, Account: "3100", DebitAmount: share, CreditAmount: zero, Description: "Allocate NCI share of net income"},
			{Company: consolidationEntity, Account: "3500", DebitAmount: zero, CreditAmount: share, Description: "Increase non-controlling interest"},
		}
	}

	return Entry{
		EntryID:             id.New(id.PrefixElimination),
		Type:                TypeMinorityInterest,
		ConsolidationEntity: consolidationEntity,
		FiscalYear:          fiscalYear,
		FiscalPeriod:        fiscalPeriod,
		RelatedCompanies:    []string{subsidiary.Code},
		Description:         fmt.Sprintf("Allocate non-controlling interest share of %s's net income", subsidiary.Code),
		Lines:               lines,
	}, nil
}

// CurrencyTranslationElimination books a foreign subsidiary's cumulative
// translation adjustment (via fx.CTA's current-rate-method calculation)
// as an equity line, offset against the parent's investment account at
// the consolidation entity.
func CurrencyTranslationElimination(consolidationEntity string, fiscalYear, fiscalPeriod int, subsidiary company.Company, snapshot fx.NetAssetSnapshot, parentCurrency string) Entry {
	cta := fx.CTA(snapshot, parentCurrency)
	amount := cta.Abs()
	zero := types.Zero(parentCurrency)

	var lines []Line
	if cta.IsNegative() {
		lines = []Line{
			{Company: subsidiary.Code, Account: "3200", DebitAmount: amount, CreditAmount: zero, Description: "Recognize cumulative translation loss"},
			{Company: consolidationEntity, Account: "1510", DebitAmount: zero, CreditAmount: amount, Description: "Retranslate investment in subsidiary"},
		}
	} else {
		lines = []Line{
			{Company: subsidiary.Code, Account: "3200", DebitAmount: zero, CreditAmount: amount, Description: "Recognize cumulative translation gain"},
			{Company: consolidationEntity, Account: "1510", DebitAmount: amount, CreditAmount: zero, Description: "Retranslate investment in subsidiary"},
		}
	}

	return Entry{
		EntryID:             id.New(id.PrefixElimination),
		Type:                TypeCurrencyTranslation,
		ConsolidationEntity: consolidationEntity,
		FiscalYear:          fiscalYear,
		FiscalPeriod:        fiscalPeriod,
		RelatedCompanies:    []string{subsidiary.Code},
		Description:         fmt.Sprintf("Currency translation adjustment for %s", subsidiary.Code),
		Lines:               lines,
	}
}

// Status is a consolidation journal's lifecycle state.
type Status string

// Journal lifecycle statuses.
const (
	StatusDraft           Status = "Draft"
	StatusPendingApproval Status = "PendingApproval"
	StatusApproved        Status = "Approved"
	StatusPosted          Status = "Posted"
	StatusReversed        Status = "Reversed"
)

// Journal aggregates every elimination entry for one consolidation
// entity/period, tracking its own approval lifecycle independent of any
// single entry's.
type Journal struct {
	ConsolidationEntity string
	FiscalYear          int
	FiscalPeriod        int
	Status              Status
	Entries             []Entry
}

// NewJournal constructs an empty Journal in StatusDraft.
func NewJournal(consolidationEntity string, fiscalYear, fiscalPeriod int) *Journal {
	return &Journal{ConsolidationEntity: consolidationEntity, FiscalYear: fiscalYear, FiscalPeriod: fiscalPeriod, Status: StatusDraft}
}

// Add appends e to the journal.
func (j *Journal) Add(e Entry) { j.Entries = append(j.Entries, e) }

// IsBalanced reports whether every entry in the journal is individually
// balanced — a journal is only as sound as its weakest entry.
func (j *Journal) IsBalanced() bool {
	for _, e := range j.Entries {
		if !e.IsBalanced() {
			return false
		}
	}
	return true
}
