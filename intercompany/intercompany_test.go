package intercompany

import "testing"
import "github.com/synthledger/engine/types"

func TestBuildProducesSymmetricPair(t *testing.T) {
	pair, err := Build("US01", "DE01", TxnGoodsSale, types.USD("1000.00"), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !pair.IsSymmetric() {
		t.Error("expected symmetric matched pair")
	}
	if err := pair.SellerDoc.Validate(); err != nil {
		t.Errorf("seller entry invalid: %v", err)
	}
	if err := pair.BuyerDoc.Validate(); err != nil {
		t.Errorf("buyer entry invalid: %v", err)
	}
}

func TestBuildAppliesWithholdingTax(t *testing.T) {
	pair, err := Build("US01", "IN01", TxnRoyalty, types.USD("1000.00"), 0.10)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pair.WithholdingTax == nil {
		t.Fatal("expected withholding tax to be applied for Royalty")
	}
	want := types.USD("100.00")
	if !pair.WithholdingTax.Equal(want) {
		t.Errorf("WHT: got %s, want %s", pair.WithholdingTax, want)
	}
}

func TestMatchRateAllSymmetric(t *testing.T) {
	var pairs []MatchedPair
	for i := 0; i < 5; i++ {
		p, err := Build("US01", "DE01", TxnGoodsSale, types.USD("100.00"), 0)
		if err != nil {
			t.Fatal(err)
		}
		pairs = append(pairs, p)
	}
	if rate := MatchRate(pairs); rate != 1.0 {
		t.Errorf("expected match rate 1.0, got %v", rate)
	}
}
