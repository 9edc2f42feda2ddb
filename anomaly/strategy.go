package anomaly

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/rng"
)

// StrategyKind names one of the six mutation strategies (§4.5.3).
type StrategyKind string

// Strategies.
const (
	StrategyAmountModification StrategyKind = "AmountModification"
	StrategyDateModification   StrategyKind = "DateModification"
	StrategyDuplication        StrategyKind = "Duplication"
	StrategyApprovalAnomaly    StrategyKind = "ApprovalAnomaly"
	StrategyDescriptionAnomaly StrategyKind = "DescriptionAnomaly"
	StrategyBenfordViolation   StrategyKind = "BenfordViolation"
)

// CausalReason tags why a specific mutation was chosen, for provenance.
type CausalReason string

// Causal reasons (§4.5.5).
const (
	ReasonRandomRate        CausalReason = "RandomRate"
	ReasonClusterMembership CausalReason = "ClusterMembership"
	ReasonEntityTargeting   CausalReason = "EntityTargeting"
	ReasonMLTrainingBalance CausalReason = "MLTrainingBalance"
)

// CounterfactualKind names the shape of the pre/post transform recorded
// alongside a mutated entry, per §4.5.6.
type CounterfactualKind string

// Counterfactual kinds.
const (
	CounterfactualScaleAmount      CounterfactualKind = "ScaleAmount"
	CounterfactualAddAmount        CounterfactualKind = "AddAmount"
	CounterfactualSetAmount        CounterfactualKind = "SetAmount"
	CounterfactualShiftDate        CounterfactualKind = "ShiftDate"
	CounterfactualChangePeriod     CounterfactualKind = "ChangePeriod"
	CounterfactualReclassifyAccount CounterfactualKind = "ReclassifyAccount"
	CounterfactualAddLine          CounterfactualKind = "AddLine"
	CounterfactualRemoveLine       CounterfactualKind = "RemoveLine"
	CounterfactualSplit            CounterfactualKind = "Split"
	CounterfactualRoundTrip        CounterfactualKind = "RoundTrip"
	CounterfactualSelfApprove      CounterfactualKind = "SelfApprove"
	CounterfactualCustom           CounterfactualKind = "Custom"
)

// Counterfactual records what changed between the clean and mutated
// entry, independent of the provenance hash.
type Counterfactual struct {
	Kind     CounterfactualKind
	Field    string
	Before   string
	After    string
}

// Provenance is the audit trail attached to every anomaly (§4.5.5).
type Provenance struct {
	OriginalDocumentHash string
	CausalReason         CausalReason
	Counterfactual       Counterfactual
}

// HashEntry computes the provenance hash of an entry's pre-mutation state.
func HashEntry(e journal.Entry) string {
	// json.Marshal of a deterministic struct gives a stable byte
	// sequence for a fixed Entry value; field order is struct-declared.
	b, _ := json.Marshal(e)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Anomaly is a labeled injected anomaly, correlated with the mutated entry.
type Anomaly struct {
	ID              id.ID
	Category        Category
	Subtype         Subtype
	Severity        int
	Intentional     bool
	AffectedEntryID id.ID
	ClusterID       id.ID
	Provenance      Provenance
	InjectedAt      time.Time
}

// Strategy mutates a journal entry in place to realize a subtype, and
// reports whether it was applicable.
type Strategy interface {
	CanApply(e *journal.Entry) bool
	Apply(source *rng.Source, e *journal.Entry) Counterfactual
}

// amountModification scales, adds to, or sets the first line's amount
// (its debit side if positive, else its credit side), per §4.5.3.
type amountModification struct{}

func (amountModification) CanApply(e *journal.Entry) bool { return len(e.Lines) > 0 }

func (amountModification) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	line := &e.Lines[0]
	isDebit := line.DebitAmount.IsPositive()
	amt := line.DebitAmount
	if !isDebit {
		amt = line.CreditAmount
	}
	before := amt

	kind := source.Choose(3)
	cfKind := CounterfactualScaleAmount
	var after decimal.Decimal
	switch kind {
	case 0: // scale by 1.5x-4x
		factor := 1.5 + source.NextFloat64()*2.5
		after = amt.Amount.Mul(decimal.NewFromFloat(factor))
	case 1: // add a round amount
		cfKind = CounterfactualAddAmount
		bump := decimal.NewFromInt(source.GenRange(100, 10000))
		after = amt.Amount.Add(bump)
	default: // set to an unrelated round figure
		cfKind = CounterfactualSetAmount
		after = decimal.NewFromInt(source.GenRange(500, 50000))
	}

	if isDebit {
		line.DebitAmount.Amount = after
	} else {
		line.CreditAmount.Amount = after
	}
	// Left unbalanced intentionally: journal.Entry.IsBalanced() surfaces
	// this, and evaluator metrics rely on detecting it.

	return Counterfactual{Kind: cfKind, Field: "amount",
		Before: before.String(), After: after.String()}
}

// dateModification shifts the posting date of the entry by a random
// offset, optionally crossing a period boundary.
type dateModification struct{}

func (dateModification) CanApply(e *journal.Entry) bool { return true }

func (dateModification) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	before := e.Header.PostingDate
	days := int(source.GenRange(-60, 60))
	after := before.AddDate(0, 0, days)
	e.Header.PostingDate = after

	kind := CounterfactualShiftDate
	if after.Month() != before.Month() {
		kind = CounterfactualChangePeriod
	}
	return Counterfactual{Kind: kind, Field: "posting_date",
		Before: before.Format("2006-01-02"), After: after.Format("2006-01-02")}
}

// duplication is applied by the caller creating a second copy of the
// entry; CanApply/Apply exist for interface symmetry but the actual
// duplicate is produced by ledgergen's generation loop (a copy under a
// fresh document ID) since it needs to append a whole new entry rather
// than mutate in place.
type duplication struct{}

func (duplication) CanApply(e *journal.Entry) bool { return true }

func (duplication) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	_ = source
	return Counterfactual{Kind: CounterfactualRoundTrip, Field: "document_id",
		Before: e.Header.DocumentID.String(), After: e.Header.DocumentID.String()}
}

// approvalAnomaly makes the entry self-approved by setting its approver
// to its creator. It applies only to entries that already carry an
// approver; no under-authorized approver is substituted.
type approvalAnomaly struct{}

func (approvalAnomaly) CanApply(e *journal.Entry) bool { return !e.Header.ApprovedBy.IsNil() }

func (approvalAnomaly) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	_ = source
	before := e.Header.ApprovedBy
	e.Header.ApprovedBy = e.Header.CreatedBy
	return Counterfactual{Kind: CounterfactualSelfApprove, Field: "approved_by",
		Before: before.String(), After: e.Header.ApprovedBy.String()}
}

// descriptionAnomaly blanks or vaguens the entry's line text.
type descriptionAnomaly struct{}

func (descriptionAnomaly) CanApply(e *journal.Entry) bool { return len(e.Lines) > 0 }

var vaguePhrases = []string{"misc", "various", "adjustment", "n/a", "see attached"}

func (descriptionAnomaly) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	line := &e.Lines[0]
	before := line.Text
	idx := source.Choose(len(vaguePhrases))
	line.Text = vaguePhrases[idx]
	return Counterfactual{Kind: CounterfactualCustom, Field: "text", Before: before, After: line.Text}
}

// benfordViolation forces the leading digit of the first line's amount
// into a statistically over-represented digit (5 or 9, weighted toward
// 5), replacing the amount with that digit followed by trailing zeros.
type benfordViolation struct{}

func (benfordViolation) CanApply(e *journal.Entry) bool { return len(e.Lines) > 0 }

var benfordSkewDigits = []int64{5, 5, 5, 9, 9}

func (benfordViolation) Apply(source *rng.Source, e *journal.Entry) Counterfactual {
	line := &e.Lines[0]
	isDebit := line.DebitAmount.IsPositive()
	before := line.DebitAmount
	if !isDebit {
		before = line.CreditAmount
	}

	digit := benfordSkewDigits[source.Choose(len(benfordSkewDigits))]
	magnitude := source.GenRange(1, 4) // 1-4 extra digits
	value := decimal.NewFromInt(digit)
	for i := int64(0); i < magnitude; i++ {
		value = value.Mul(decimal.NewFromInt(10))
	}

	if isDebit {
		line.DebitAmount.Amount = value
	} else {
		line.CreditAmount.Amount = value
	}

	return Counterfactual{Kind: CounterfactualSetAmount, Field: "amount",
		Before: before.String(), After: value.String()}
}

// strategies is the registry keyed by StrategyKind.
var strategies = map[StrategyKind]Strategy{
	StrategyAmountModification: amountModification{},
	StrategyDateModification:   dateModification{},
	StrategyDuplication:        duplication{},
	StrategyApprovalAnomaly:    approvalAnomaly{},
	StrategyDescriptionAnomaly: descriptionAnomaly{},
	StrategyBenfordViolation:   benfordViolation{},
}
