package ledgergen

import (
	"github.com/synthledger/engine/anomaly"
	"github.com/synthledger/engine/dataquality"
	"github.com/synthledger/engine/docchain"
	"github.com/synthledger/engine/elimination"
	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/openbal"
	"github.com/synthledger/engine/trialbalance"
)

// Result is the complete output of one C4 generation run, before C6
// evaluation.
type Result struct {
	Entries   []journal.Entry
	Anomalies []*anomaly.Anomaly

	ICPairs   []intercompany.MatchedPair
	DocChains []*docchain.Chain

	OpeningBalances map[string]openbal.Balances
	FXTable         *fx.Table

	// TrialBalances holds, per company code, the trial balance as of the
	// final fiscal period this run reached — the subledger-to-GL
	// reconciliation artifact §4.6.1's coherence checks name.
	TrialBalances map[string]trialbalance.TrialBalance

	// Eliminations holds every consolidation elimination entry derived
	// from this run's intercompany matched pairs and parent/subsidiary
	// ownership links.
	Eliminations []elimination.Entry

	// QualityStats records the unlabeled background noise applied by
	// the dataquality degradation pass.
	QualityStats dataquality.Stats

	// UnroutableApprovals counts entries whose gross amount exceeded
	// every candidate approver's limit within the employee hierarchy —
	// an unsatisfiable routing constraint per §7, reported here rather
	// than aborting the run or silently assigning an under-limit
	// approver.
	UnroutableApprovals int
}

// CompletenessRate returns the fraction of entries left with every
// optional field intact after data-quality degradation.
func (r *Result) CompletenessRate() float64 {
	return r.QualityStats.CompletenessRate()
}

// AmountPopulation returns every line amount (debit or credit, whichever
// is positive) across every entry, for Benford / distribution analysis.
func (r *Result) AmountPopulation() []float64 {
	var out []float64
	for _, e := range r.Entries {
		for _, l := range e.Lines {
			if l.DebitAmount.IsPositive() {
				f, _ := l.DebitAmount.Amount.Float64()
				out = append(out, f)
			} else if l.CreditAmount.IsPositive() {
				f, _ := l.CreditAmount.Amount.Float64()
				out = append(out, f)
			}
		}
	}
	return out
}

// AnomalyRate returns the fraction of entries carrying is_anomaly.
func (r *Result) AnomalyRate() float64 {
	if len(r.Entries) == 0 {
		return 0
	}
	var anomalous int
	for _, e := range r.Entries {
		if e.Header.IsAnomaly {
			anomalous++
		}
	}
	return float64(anomalous) / float64(len(r.Entries))
}

// LabelCoverage returns the fraction of anomalous entries that carry a
// non-nil anomaly_id, per §4.6.1's ML-readiness "label coverage."
func (r *Result) LabelCoverage() float64 {
	var anomalous, labeled int
	for _, e := range r.Entries {
		if !e.Header.IsAnomaly {
			continue
		}
		anomalous++
		if !e.Header.AnomalyID.IsNil() {
			labeled++
		}
	}
	if anomalous == 0 {
		return 1
	}
	return float64(labeled) / float64(anomalous)
}

// DuplicateRate returns the fraction of entries whose content hash, as
// stored in Entries (after anomaly mutation and data-quality
// degradation, document ID included), collides with another entry's,
// keyed by anomaly.HashEntry per §4.6.1's "exact and near duplicate rate."
func (r *Result) DuplicateRate() float64 {
	if len(r.Entries) == 0 {
		return 0
	}
	seen := make(map[string]int, len(r.Entries))
	for _, e := range r.Entries {
		seen[anomaly.HashEntry(e)]++
	}
	var duplicates int
	for _, count := range seen {
		if count > 1 {
			duplicates += count - 1
		}
	}
	return float64(duplicates) / float64(len(r.Entries))
}

// TrialBalancesBalanced reports whether every company's trial balance
// satisfies the balance-sheet equation (total debits equal total
// credits), per §4.6.1.
func (r *Result) TrialBalancesBalanced() bool {
	for _, tb := range r.TrialBalances {
		if !tb.IsBalanced() {
			return false
		}
	}
	return true
}

// EliminationsBalanced reports whether every consolidation elimination
// entry this run produced is individually balanced.
func (r *Result) EliminationsBalanced() bool {
	for _, e := range r.Eliminations {
		if !e.IsBalanced() {
			return false
		}
	}
	return true
}

// DocumentChainCompletion returns the fraction of document chains whose
// root document reached docchain.StatusCompleted.
func (r *Result) DocumentChainCompletion() float64 {
	if len(r.DocChains) == 0 {
		return 1
	}
	var completed int
	for _, c := range r.DocChains {
		if len(c.Documents) > 0 && c.Documents[0].Status == docchain.StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(r.DocChains))
}
