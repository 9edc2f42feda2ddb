package anomaly

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/journal"
)

// CounterfactualSpec parameterizes a standalone transformation of one
// journal entry, per §4.5.6. Unlike Injector.Inject, building a
// counterfactual pair never consumes the per-document anomaly cap or
// the base-rate/clustering budget — it's a separate entry point a
// caller drives directly to build explicit contrastive training pairs.
type CounterfactualSpec struct {
	Kind CounterfactualKind

	ScaleFactor  decimal.Decimal // CounterfactualScaleAmount
	DeltaAmount  decimal.Decimal // CounterfactualAddAmount
	SetAmount    decimal.Decimal // CounterfactualSetAmount
	ShiftDays    int             // CounterfactualShiftDate
	PeriodDelta  int             // CounterfactualChangePeriod
	ReclassifyTo string          // CounterfactualReclassifyAccount: target account code
	NewLine      journal.Line    // CounterfactualAddLine
	RemoveLineNo int             // CounterfactualRemoveLine: 1-based LineNo to drop
	SplitParts   int             // CounterfactualSplit: ways to split the first line
	ApproverID   id.ID           // CounterfactualSelfApprove

	// Custom applies an arbitrary transformation in place, for
	// CounterfactualCustom and for "inject-fraud" specs that compose
	// one of the package's own injection Strategy.Apply closures.
	Custom func(*journal.Entry)
}

// CounterfactualPair is the labeled {original, modified} output of
// BuildCounterfactualPair: identical document-ID topology to the
// source, but its own fresh PairID.
type CounterfactualPair struct {
	PairID   id.ID
	Original journal.Entry
	Modified journal.Entry
	Label    Subtype
	Strategy CounterfactualKind
}

// counterfactualLabels maps each transformation kind to the taxonomy
// subtype it best approximates, for ML-readiness labeling. Custom has
// no fixed label since its transformation is caller-defined.
var counterfactualLabels = map[CounterfactualKind]Subtype{
	CounterfactualScaleAmount:       SubtypeOutlierAmount,
	CounterfactualAddAmount:         SubtypeOutlierAmount,
	CounterfactualSetAmount:         SubtypeOutlierAmount,
	CounterfactualShiftDate:         SubtypeLatePosting,
	CounterfactualChangePeriod:      SubtypeOffByPeriod,
	CounterfactualReclassifyAccount: SubtypeWrongAccount,
	CounterfactualAddLine:           SubtypeTransposedDigits,
	CounterfactualRemoveLine:        SubtypeTransposedDigits,
	CounterfactualSplit:             SubtypeTransposedDigits,
	CounterfactualRoundTrip:         SubtypeDuplicatePosting,
	CounterfactualSelfApprove:       SubtypeSelfApproval,
}

// BuildCounterfactualPair clones original, applies spec's
// transformation to the clone, and returns the labeled pair. It never
// mutates original.
func BuildCounterfactualPair(original journal.Entry, spec CounterfactualSpec) (CounterfactualPair, error) {
	modified := cloneEntry(original)

	switch spec.Kind {
	case CounterfactualScaleAmount:
		if err := requireLine(&modified, 0); err != nil {
			return CounterfactualPair{}, err
		}
		scaleLineAmount(&modified.Lines[0], spec.ScaleFactor)

	case CounterfactualAddAmount:
		if err := requireLine(&modified, 0); err != nil {
			return CounterfactualPair{}, err
		}
		addLineAmount(&modified.Lines[0], spec.DeltaAmount)

	case CounterfactualSetAmount:
		if err := requireLine(&modified, 0); err != nil {
			return CounterfactualPair{}, err
		}
		setLineAmount(&modified.Lines[0], spec.SetAmount)

	case CounterfactualShiftDate:
		modified.Header.PostingDate = modified.Header.PostingDate.AddDate(0, 0, spec.ShiftDays)

	case CounterfactualChangePeriod:
		modified.Header.FiscalPeriod += spec.PeriodDelta

	case CounterfactualReclassifyAccount:
		if err := requireLine(&modified, 0); err != nil {
			return CounterfactualPair{}, err
		}
		modified.Lines[0].Account = spec.ReclassifyTo

	case CounterfactualAddLine:
		modified.Lines = append(modified.Lines, spec.NewLine)

	case CounterfactualRemoveLine:
		lines, err := removeLine(modified.Lines, spec.RemoveLineNo)
		if err != nil {
			return CounterfactualPair{}, err
		}
		modified.Lines = lines

	case CounterfactualSplit:
		lines, err := splitFirstLine(modified.Lines, spec.SplitParts)
		if err != nil {
			return CounterfactualPair{}, err
		}
		modified.Lines = lines

	case CounterfactualRoundTrip:
		// No content change: the pair itself — same topology, fresh
		// PairID — is the counterfactual signal (a document that looks
		// identical to its origin but isn't the same document).

	case CounterfactualSelfApprove:
		modified.Header.CreatedBy = spec.ApproverID
		modified.Header.ApprovedBy = spec.ApproverID

	case CounterfactualCustom:
		if spec.Custom == nil {
			return CounterfactualPair{}, fmt.Errorf("anomaly: counterfactual: custom kind requires Custom")
		}
		spec.Custom(&modified)

	default:
		return CounterfactualPair{}, fmt.Errorf("anomaly: counterfactual: unsupported kind %q", spec.Kind)
	}

	return CounterfactualPair{
		PairID:   id.New(id.PrefixCounterfactal),
		Original: original,
		Modified: modified,
		Label:    counterfactualLabels[spec.Kind],
		Strategy: spec.Kind,
	}, nil
}

func cloneEntry(e journal.Entry) journal.Entry {
	lines := make([]journal.Line, len(e.Lines))
	copy(lines, e.Lines)
	clone := e
	clone.Lines = lines
	return clone
}

func requireLine(e *journal.Entry, idx int) error {
	if idx >= len(e.Lines) {
		return fmt.Errorf("anomaly: counterfactual: entry has no line %d to transform", idx)
	}
	return nil
}

func scaleLineAmount(line *journal.Line, factor decimal.Decimal) {
	if line.DebitAmount.IsPositive() {
		line.DebitAmount.Amount = line.DebitAmount.Amount.Mul(factor)
	} else {
		line.CreditAmount.Amount = line.CreditAmount.Amount.Mul(factor)
	}
}

func addLineAmount(line *journal.Line, delta decimal.Decimal) {
	if line.DebitAmount.IsPositive() {
		line.DebitAmount.Amount = line.DebitAmount.Amount.Add(delta)
	} else {
		line.CreditAmount.Amount = line.CreditAmount.Amount.Add(delta)
	}
}

func setLineAmount(line *journal.Line, amount decimal.Decimal) {
	if line.DebitAmount.IsPositive() {
		line.DebitAmount.Amount = amount
	} else {
		line.CreditAmount.Amount = amount
	}
}

func removeLine(lines []journal.Line, lineNo int) ([]journal.Line, error) {
	out := make([]journal.Line, 0, len(lines))
	found := false
	for _, l := range lines {
		if l.LineNo == lineNo {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		return nil, fmt.Errorf("anomaly: counterfactual: no line numbered %d", lineNo)
	}
	return out, nil
}

// splitFirstLine divides the first line's amount into parts roughly-
// equal lines, a structuring-style counterfactual.
func splitFirstLine(lines []journal.Line, parts int) ([]journal.Line, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("anomaly: counterfactual: entry has no lines to split")
	}
	if parts < 2 {
		return nil, fmt.Errorf("anomaly: counterfactual: split requires parts >= 2, got %d", parts)
	}

	original := lines[0]
	isDebit := original.DebitAmount.IsPositive()
	total := original.DebitAmount.Amount
	if !isDebit {
		total = original.CreditAmount.Amount
	}
	share := total.Div(decimal.NewFromInt(int64(parts)))

	out := make([]journal.Line, 0, len(lines)+parts-1)
	for i := 0; i < parts; i++ {
		l := original
		l.LineNo = original.LineNo + i
		amount := share
		if i == parts-1 {
			// last share absorbs the rounding remainder
			amount = total.Sub(share.Mul(decimal.NewFromInt(int64(parts - 1))))
		}
		if isDebit {
			l.DebitAmount.Amount = amount
		} else {
			l.CreditAmount.Amount = amount
		}
		out = append(out, l)
	}
	out = append(out, lines[1:]...)
	return out, nil
}
