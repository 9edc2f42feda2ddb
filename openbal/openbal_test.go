package openbal

import (
	"errors"
	"testing"

	"github.com/synthledger/engine/types"
)

func baseSpec() Spec {
	return Spec{
		Industry:    "Manufacturing",
		TotalAssets: types.USD("1000000.00"),
		CapitalStructure: CapitalStructure{
			LiabilityRatio: 0.4,
		},
		TargetRatios: TargetRatios{
			DSO: 45, DPO: 30, DIO: 60, CurrentRatio: 1.0,
		},
		AssetComposition: AssetComposition{
			CashRatio: 0.1, ReceivableRatio: 0.2, InventoryRatio: 0.2,
		},
		AnnualRevenue: types.USD("2000000.00"),
		AnnualCOGS:    types.USD("1200000.00"),
	}
}

func TestAllocateSatisfiesBalanceSheetEquation(t *testing.T) {
	balances, err := Allocate(baseSpec())
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	assets := balances.ByAccountCode["1000"].Add(balances.ByAccountCode["1100"]).
		Add(balances.ByAccountCode["1200"]).Add(balances.ByAccountCode["1500"])
	liabEquity := balances.ByAccountCode["2000"].Add(balances.ByAccountCode["2300"]).
		Add(balances.ByAccountCode["3000"])

	if !assets.Equal(liabEquity) {
		t.Errorf("assets %s != liabilities+equity %s", assets, liabEquity)
	}
}

func TestAllocateRejectsOverAllocatedComposition(t *testing.T) {
	spec := baseSpec()
	spec.AssetComposition = AssetComposition{CashRatio: 0.5, ReceivableRatio: 0.4, InventoryRatio: 0.3}
	_, err := Allocate(spec)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("expected ErrInfeasible, got %v", err)
	}
}

func TestAllocateRejectsZeroTotalAssets(t *testing.T) {
	spec := baseSpec()
	spec.TotalAssets = types.Zero("usd")
	_, err := Allocate(spec)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("expected ErrInfeasible, got %v", err)
	}
}
