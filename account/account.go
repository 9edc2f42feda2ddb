// Package account implements the chart-of-accounts slice of the master
// data pool (C3): account types, normal-side derivation, and the closed
// account population consumed by the ledger generator.
package account

import (
	"fmt"

	"github.com/synthledger/engine/id"
)

// Type is the closed set of account types named in spec §3.
type Type string

// Account types.
const (
	TypeAsset           Type = "Asset"
	TypeLiability       Type = "Liability"
	TypeEquity          Type = "Equity"
	TypeRevenue         Type = "Revenue"
	TypeExpense         Type = "Expense"
	TypeContraAsset     Type = "ContraAsset"
	TypeContraLiability Type = "ContraLiability"
	TypeContraEquity    Type = "ContraEquity"
)

// NormalSide is the side (Debit or Credit) on which an account type
// normally increases.
type NormalSide string

// Normal sides.
const (
	Debit  NormalSide = "Debit"
	Credit NormalSide = "Credit"
)

// NormalSideOf derives the normal side for a type, per spec §3's
// invariant: "debit-normal types increase on debit; credit-normal on
// credit." Contra accounts take the opposite side of their parent class.
func NormalSideOf(t Type) NormalSide {
	switch t {
	case TypeAsset, TypeExpense, TypeContraLiability, TypeContraEquity:
		return Debit
	case TypeLiability, TypeEquity, TypeRevenue, TypeContraAsset:
		return Credit
	default:
		panic(fmt.Sprintf("account: unknown type %q", t))
	}
}

// Account is a chart-of-accounts entry.
type Account struct {
	ID          id.ID
	Code        string
	Description string
	Type        Type
	NormalSide  NormalSide
}

// New constructs an Account, deriving NormalSide from Type.
func New(code, description string, t Type) Account {
	return Account{
		ID:          id.NewAccountID(),
		Code:        code,
		Description: description,
		Type:        t,
		NormalSide:  NormalSideOf(t),
	}
}

// Pool is the closed, immutable population of accounts for one company,
// keyed by code for O(1) lookup by the ledger generator.
type Pool struct {
	byCode map[string]Account
	ordered []Account
}

// NewPool builds a lookup pool from a slice of accounts, preserving
// insertion order for deterministic iteration.
func NewPool(accounts []Account) *Pool {
	p := &Pool{byCode: make(map[string]Account, len(accounts)), ordered: accounts}
	for _, a := range accounts {
		p.byCode[a.Code] = a
	}
	return p
}

// ByCode looks up an account by its code.
func (p *Pool) ByCode(code string) (Account, bool) {
	a, ok := p.byCode[code]
	return a, ok
}

// All returns every account in deterministic (insertion) order.
func (p *Pool) All() []Account {
	return p.ordered
}

// Len returns the number of accounts in the pool.
func (p *Pool) Len() int { return len(p.ordered) }

// StandardChartOfAccounts returns a representative, generic chart of
// accounts covering every Type, sufficient to drive the document-chain
// and journal templates in §4.3. Per spec.md's Non-goals, this engine
// never models a *real* company's chart — these codes are synthetic and
// generic by design.
func StandardChartOfAccounts() []Account {
	return []Account{
		New("1000", "Cash and Cash Equivalents", TypeAsset),
		New("1100", "Accounts Receivable", TypeAsset),
		New("1150", "Intercompany Receivable", TypeAsset),
		New("1200", "Inventory", TypeAsset),
		New("1190", "Allowance for Doubtful Accounts", TypeContraAsset),
		New("1500", "Property, Plant & Equipment", TypeAsset),
		New("1510", "Investment in Subsidiary", TypeAsset),
		New("1590", "Accumulated Depreciation", TypeContraAsset),
		New("2000", "Accounts Payable", TypeLiability),
		New("2050", "Intercompany Payable", TypeLiability),
		New("2100", "GR/IR Clearing", TypeLiability),
		New("2200", "Withholding Tax Payable", TypeLiability),
		New("2300", "Accrued Payroll", TypeLiability),
		New("3000", "Common Stock", TypeEquity),
		New("3100", "Retained Earnings", TypeEquity),
		New("3200", "Currency Translation Adjustment", TypeEquity),
		New("3500", "Non-Controlling Interest", TypeEquity),
		New("4000", "Revenue", TypeRevenue),
		New("4050", "Intercompany Revenue", TypeRevenue),
		New("4900", "Sales Returns and Allowances", TypeContraAsset),
		New("5000", "Cost of Goods Sold", TypeExpense),
		New("5050", "Intercompany COGS", TypeExpense),
		New("6000", "Payroll Expense", TypeExpense),
		New("6100", "General & Administrative Expense", TypeExpense),
		New("6200", "FX Gain/Loss", TypeExpense),
		New("6300", "Depreciation Expense", TypeExpense),
	}
}
