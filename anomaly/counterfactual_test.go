package anomaly

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/synthledger/engine/journal"
)

func TestBuildCounterfactualPairScaleAmountLeavesOriginalUntouched(t *testing.T) {
	original := *sampleEntry()

	pair, err := BuildCounterfactualPair(original, CounterfactualSpec{
		Kind:        CounterfactualScaleAmount,
		ScaleFactor: decimal.NewFromFloat(3.0),
	})
	if err != nil {
		t.Fatalf("BuildCounterfactualPair: %v", err)
	}

	if !pair.Original.Lines[0].DebitAmount.Amount.Equal(original.Lines[0].DebitAmount.Amount) {
		t.Fatal("original entry mutated by BuildCounterfactualPair")
	}
	if pair.Modified.Lines[0].DebitAmount.Amount.Equal(original.Lines[0].DebitAmount.Amount) {
		t.Fatal("expected modified line amount to differ from original")
	}
	if pair.Label != SubtypeOutlierAmount {
		t.Errorf("expected label %s, got %s", SubtypeOutlierAmount, pair.Label)
	}
	if pair.PairID.IsNil() {
		t.Fatal("expected a non-nil pair ID")
	}
}

func TestBuildCounterfactualPairShiftDate(t *testing.T) {
	original := *sampleEntry()

	pair, err := BuildCounterfactualPair(original, CounterfactualSpec{
		Kind:      CounterfactualShiftDate,
		ShiftDays: 10,
	})
	if err != nil {
		t.Fatalf("BuildCounterfactualPair: %v", err)
	}
	want := original.Header.PostingDate.AddDate(0, 0, 10)
	if !pair.Modified.Header.PostingDate.Equal(want) {
		t.Errorf("expected shifted date %v, got %v", want, pair.Modified.Header.PostingDate)
	}
	if !pair.Original.Header.PostingDate.Equal(original.Header.PostingDate) {
		t.Fatal("original entry's posting date mutated")
	}
}

func TestBuildCounterfactualPairSplit(t *testing.T) {
	original := *sampleEntry()

	pair, err := BuildCounterfactualPair(original, CounterfactualSpec{
		Kind:       CounterfactualSplit,
		SplitParts: 4,
	})
	if err != nil {
		t.Fatalf("BuildCounterfactualPair: %v", err)
	}
	if len(pair.Modified.Lines) != len(original.Lines)+3 {
		t.Fatalf("expected 3 extra lines from a 4-way split, got %d total", len(pair.Modified.Lines))
	}

	var sum decimal.Decimal
	for _, l := range pair.Modified.Lines[:4] {
		sum = sum.Add(l.DebitAmount.Amount)
	}
	if !sum.Equal(original.Lines[0].DebitAmount.Amount) {
		t.Errorf("split amounts sum to %s, want %s", sum, original.Lines[0].DebitAmount.Amount)
	}
}

func TestBuildCounterfactualPairCustomRequiresClosure(t *testing.T) {
	original := *sampleEntry()

	if _, err := BuildCounterfactualPair(original, CounterfactualSpec{Kind: CounterfactualCustom}); err == nil {
		t.Fatal("expected an error for a Custom spec with no closure")
	}

	called := false
	pair, err := BuildCounterfactualPair(original, CounterfactualSpec{
		Kind: CounterfactualCustom,
		Custom: func(e *journal.Entry) {
			called = true
			e.Header.Source = "counterfactual-test"
		},
	})
	if err != nil {
		t.Fatalf("BuildCounterfactualPair: %v", err)
	}
	if !called {
		t.Fatal("expected Custom closure to run")
	}
	if pair.Modified.Header.Source != "counterfactual-test" {
		t.Fatal("expected Custom closure's mutation to apply")
	}
}
