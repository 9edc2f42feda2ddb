// Package ledgergen is the C4 orchestrator: it drives the temporal
// sampler, master data pools, document-chain and intercompany
// generators, FX table, and anomaly injector to produce one run's
// worth of balanced double-entry journal activity, then hands the
// result to the C6 evaluator.
package ledgergen

import (
	"time"

	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/openbal"
)

// Options configures one generation run, independent of the anomaly and
// evaluation configuration carried on config.Config.
type Options struct {
	Start, End time.Time

	// EntriesPerCompanyPeriod is the target journal-entry count for each
	// (company, fiscal period) cell, before temporal weighting, per
	// §4.3.1.
	EntriesPerCompanyPeriod int

	// ProcessWeights selects a business process per entry, per §4.3.1
	// step 1. Nil selects uniformly across journal.Templates().
	ProcessWeights map[journal.BusinessProcess]float64

	AmountDistribution journal.AmountDistribution

	ICEventsPerPeriod  int
	ICTransactionTypes []intercompany.TransactionType
	WithholdingTaxRate float64

	DocChainsPerCompanyPeriod int

	// FXRates seeds the run's FX table. Left empty for a single-currency
	// run (no cross-currency companies in the pool).
	FXRates []fx.Rate

	// OpeningBalanceSpecs is keyed by company code; a company without an
	// entry gets no opening-balance allocation, per §4.3.6's "from an
	// OpeningBalanceSpec" — the spec is an explicit per-company input,
	// not something the generator invents.
	OpeningBalanceSpecs map[string]openbal.Spec
}

// DefaultOptions returns a representative one-quarter run over two
// companies with AP/AR/Payroll/GL activity, matching config.Default()'s
// scenario shape.
func DefaultOptions() Options {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	return Options{
		Start:                   start,
		End:                     end,
		EntriesPerCompanyPeriod: 40,
		ProcessWeights: map[journal.BusinessProcess]float64{
			journal.ProcessAP:          0.3,
			journal.ProcessAR:          0.3,
			journal.ProcessPayroll:     0.15,
			journal.ProcessGLAdjustment: 0.15,
			journal.ProcessClose:       0.05,
			journal.ProcessFXReval:     0.05,
		},
		AmountDistribution:        journal.DefaultAmountDistribution(),
		ICEventsPerPeriod:         2,
		ICTransactionTypes:        []intercompany.TransactionType{intercompany.TxnGoodsSale, intercompany.TxnServiceCharge},
		WithholdingTaxRate:        0,
		DocChainsPerCompanyPeriod: 5,
	}
}
