package account

import "testing"

func TestNormalSideOf(t *testing.T) {
	tests := []struct {
		t    Type
		want NormalSide
	}{
		{TypeAsset, Debit},
		{TypeExpense, Debit},
		{TypeContraLiability, Debit},
		{TypeContraEquity, Debit},
		{TypeLiability, Credit},
		{TypeEquity, Credit},
		{TypeRevenue, Credit},
		{TypeContraAsset, Credit},
	}
	for _, tt := range tests {
		if got := NormalSideOf(tt.t); got != tt.want {
			t.Errorf("NormalSideOf(%s) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestPoolLookup(t *testing.T) {
	pool := NewPool(StandardChartOfAccounts())
	a, ok := pool.ByCode("1000")
	if !ok {
		t.Fatal("expected account 1000 to exist")
	}
	if a.Type != TypeAsset {
		t.Errorf("expected 1000 to be Asset, got %s", a.Type)
	}
	if _, ok := pool.ByCode("9999"); ok {
		t.Error("expected lookup of unknown code to miss")
	}
	if pool.Len() != len(StandardChartOfAccounts()) {
		t.Errorf("Len mismatch: got %d", pool.Len())
	}
}
