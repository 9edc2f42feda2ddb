// Package journal implements the journal-entry slice of the ledger
// generator (C4, §4.3.1): balanced double-entry emission, business
// process templates, and amount sampling.
package journal

import (
	"fmt"
	"time"

	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/types"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"
)

// BusinessProcess is the closed set of process templates named in §4.3.1.
type BusinessProcess string

// Business processes.
const (
	ProcessAP          BusinessProcess = "AP"
	ProcessAR          BusinessProcess = "AR"
	ProcessGLAdjustment BusinessProcess = "GL-Adjustment"
	ProcessPayroll     BusinessProcess = "Payroll"
	ProcessClose       BusinessProcess = "Close"
	ProcessFXReval     BusinessProcess = "FX-Reval"
	ProcessIC          BusinessProcess = "IC"
)

// Status is the journal entry header's lifecycle status.
type Status string

// Statuses.
const (
	StatusPosted   Status = "Posted"
	StatusReversed Status = "Reversed"
)

// Line is one line of a journal entry.
type Line struct {
	LineNo         int
	Account        string // account code
	DebitAmount    types.Money
	CreditAmount   types.Money
	CostCenter     string
	ProfitCenter   string
	TradingPartner string
	TaxCode        string
	Text           string
	Assignment     string
}

// Header is a journal entry header.
type Header struct {
	DocumentID      id.ID
	Company         string // company code
	PostingDate     time.Time
	DocumentDate    time.Time
	FiscalYear      int
	FiscalPeriod    int
	Currency        string
	ExchangeRate    decimal.Decimal
	Source          string
	CreatedBy       id.ID // employee ID
	ApprovedBy      id.ID
	Status          Status
	IsAnomaly       bool
	IsFraud         bool
	AnomalyID       id.ID
	FraudType       string
	BusinessProcess BusinessProcess
}

// Entry is a full journal entry: header plus ordered lines.
type Entry struct {
	Header Header
	Lines  []Line
}

// TotalDebit sums every line's debit amount.
func (e Entry) TotalDebit() types.Money {
	if len(e.Lines) == 0 {
		return types.Zero(e.Header.Currency)
	}
	total := types.Zero(e.Header.Currency)
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredit sums every line's credit amount.
func (e Entry) TotalCredit() types.Money {
	if len(e.Lines) == 0 {
		return types.Zero(e.Header.Currency)
	}
	total := types.Zero(e.Header.Currency)
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// IsBalanced checks P1: |ΣD − ΣC| ≤ 10^-scale(currency).
func (e Entry) IsBalanced() bool {
	tolerance := types.FromMinor(1, e.Header.Currency)
	return e.TotalDebit().WithinTolerance(e.TotalCredit(), tolerance)
}

// Validate enforces the line-level and entry-level invariants of §3:
// exactly one of debit/credit > 0 per line (or both zero for
// statistical lines) and the balance invariant.
func (e Entry) Validate() error {
	for _, l := range e.Lines {
		if l.DebitAmount.IsPositive() && l.CreditAmount.IsPositive() {
			return fmt.Errorf("journal: line %d has both debit and credit set", l.LineNo)
		}
	}
	if !e.IsBalanced() {
		return fmt.Errorf("journal: entry %s unbalanced: debit=%s credit=%s",
			e.Header.DocumentID, e.TotalDebit(), e.TotalCredit())
	}
	return nil
}

// AccountPattern is one account slot in a posting template's topology.
type AccountPattern struct {
	AccountCode string
	Side        account.NormalSide
}

// Template specifies the allowed account patterns and debit/credit
// topology for a business process, per §4.3.1 step 2.
type Template struct {
	Process     BusinessProcess
	Lines       []AccountPattern
	TxnCode     string // authorization code required of the creator
}

// Templates returns a representative template set covering every
// business process named in §4.3.1, using the codes from
// account.StandardChartOfAccounts.
func Templates() map[BusinessProcess]Template {
	return map[BusinessProcess]Template{
		ProcessAP: {
			Process: ProcessAP,
			Lines: []AccountPattern{
				{AccountCode: "6100", Side: account.Debit},
				{AccountCode: "2000", Side: account.Credit},
			},
			TxnCode: "AP_POST",
		},
		ProcessAR: {
			Process: ProcessAR,
			Lines: []AccountPattern{
				{AccountCode: "1100", Side: account.Debit},
				{AccountCode: "4000", Side: account.Credit},
			},
			TxnCode: "AR_POST",
		},
		ProcessGLAdjustment: {
			Process: ProcessGLAdjustment,
			Lines: []AccountPattern{
				{AccountCode: "6100", Side: account.Debit},
				{AccountCode: "1000", Side: account.Credit},
			},
			TxnCode: "GL_ADJUST",
		},
		ProcessPayroll: {
			Process: ProcessPayroll,
			Lines: []AccountPattern{
				{AccountCode: "6000", Side: account.Debit},
				{AccountCode: "2300", Side: account.Credit},
			},
			TxnCode: "PAYROLL_POST",
		},
		ProcessClose: {
			Process: ProcessClose,
			Lines: []AccountPattern{
				{AccountCode: "3100", Side: account.Debit},
				{AccountCode: "3000", Side: account.Credit},
			},
			TxnCode: "GL_ADJUST",
		},
		ProcessFXReval: {
			Process: ProcessFXReval,
			Lines: []AccountPattern{
				{AccountCode: "6200", Side: account.Debit},
				{AccountCode: "3200", Side: account.Credit},
			},
			TxnCode: "GL_ADJUST",
		},
		ProcessIC: {
			Process: ProcessIC,
			Lines: []AccountPattern{
				{AccountCode: "1150", Side: account.Debit},
				{AccountCode: "4050", Side: account.Credit},
			},
			TxnCode: "IC_POST",
		},
	}
}

// AmountDistribution samples business amounts from a log-normal
// distribution mixed with a small round-dollar mass, per §4.3.1 step 3:
// "log-normal for most business amounts, mixed with a small round-dollar
// mass to preserve realistic Benford behavior."
type AmountDistribution struct {
	Mu           float64 // log-normal location
	Sigma        float64 // log-normal scale
	RoundDollarP float64 // probability of snapping to a round number
}

// DefaultAmountDistribution returns a representative distribution
// centered around a few hundred currency units.
func DefaultAmountDistribution() AmountDistribution {
	return AmountDistribution{Mu: 5.5, Sigma: 1.2, RoundDollarP: 0.08}
}

// Sample draws one amount in major units, using gonum's log-normal
// distribution (distuv takes a rand.Source; we adapt the engine's stream
// via newStreamSource so every consumed random bit still comes from the
// deterministic per-component stream).
func (d AmountDistribution) Sample(source *rng.Source) decimal.Decimal {
	if source.GenBool(d.RoundDollarP) {
		magnitudes := []int64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
		return decimal.NewFromInt(magnitudes[source.Choose(len(magnitudes))])
	}
	lognorm := distuv.LogNormal{Mu: d.Mu, Sigma: d.Sigma, Src: newStreamSource(source)}
	v := lognorm.Rand()
	if v < 0.01 {
		v = 0.01
	}
	return decimal.NewFromFloat(v).Round(2)
}

// BalanceAllocator splits a total amount across multiple credit lines
// (or debit lines) such that the parts sum exactly to the total at
// currency scale, per §4.3.1 step 4. The remainder from rounding is
// folded into the last line so Σ parts == total exactly.
func BalanceAllocator(total types.Money, weights []float64) []types.Money {
	if len(weights) == 0 {
		return nil
	}
	sumW := 0.0
	for _, w := range weights {
		sumW += w
	}
	parts := make([]types.Money, len(weights))
	running := types.Zero(total.Currency)
	for i := 0; i < len(weights)-1; i++ {
		share := total.Multiply(decimal.NewFromFloat(weights[i] / sumW))
		parts[i] = share
		running = running.Add(share)
	}
	parts[len(weights)-1] = total.Subtract(running)
	return parts
}
