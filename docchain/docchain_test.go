package docchain

import (
	"testing"

	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/types"
)

func TestCanTransitionValidEdges(t *testing.T) {
	if !CanTransition(StatusDraft, StatusSubmitted) {
		t.Error("Draft -> Submitted should be legal")
	}
	if CanTransition(StatusCompleted, StatusDraft) {
		t.Error("Completed -> Draft should be illegal")
	}
}

func TestTransitionRecalculatesTotals(t *testing.T) {
	d := &Document{
		Status:   StatusDraft,
		NetTotal: types.Zero("usd"),
		Lines: []LineItem{
			{LineNo: 1, Quantity: 2, UnitPrice: types.USD("10.00")},
		},
	}
	if err := d.Transition(StatusSubmitted); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	want := types.USD("20.00")
	if !d.NetTotal.Equal(want) {
		t.Errorf("NetTotal: got %s, want %s", d.NetTotal, want)
	}
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	d := &Document{Status: StatusCompleted, NetTotal: types.Zero("usd")}
	if err := d.Transition(StatusDraft); err == nil {
		t.Error("expected error for illegal transition")
	}
}

func TestAdvanceWithCompletionRateAlwaysCompletes(t *testing.T) {
	d := &Document{Status: StatusDraft, NetTotal: types.Zero("usd")}
	source := rng.NewSource(1, rng.TagDocChain, 0)
	if err := AdvanceWithCompletionRate(source, d, 1.0); err != nil {
		t.Fatalf("AdvanceWithCompletionRate: %v", err)
	}
	if d.Status != StatusCompleted {
		t.Errorf("expected Completed with completion rate 1.0, got %s", d.Status)
	}
}

func TestAdvanceWithCompletionRateNeverCompletes(t *testing.T) {
	d := &Document{Status: StatusDraft, NetTotal: types.Zero("usd")}
	source := rng.NewSource(1, rng.TagDocChain, 0)
	if err := AdvanceWithCompletionRate(source, d, 0.0); err != nil {
		t.Fatalf("AdvanceWithCompletionRate: %v", err)
	}
	if d.Status == StatusCompleted {
		t.Error("expected an intermediate state with completion rate 0.0")
	}
}
