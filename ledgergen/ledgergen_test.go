package ledgergen

import (
	"context"
	"testing"
	"time"

	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/masterdata"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	opts.End = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	opts.EntriesPerCompanyPeriod = 10
	opts.ICEventsPerPeriod = 1
	opts.DocChainsPerCompanyPeriod = 2
	return opts
}

func TestGenerateProducesBalancedEntries(t *testing.T) {
	pools, err := masterdata.Generate(1, masterdata.DefaultOptions())
	if err != nil {
		t.Fatalf("masterdata.Generate: %v", err)
	}
	cfg := config.Default()

	result, err := Generate(context.Background(), 1, pools, cfg, smallOptions(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Entries) == 0 {
		t.Fatal("expected at least one entry")
	}
	for _, e := range result.Entries {
		if !e.IsBalanced() {
			t.Errorf("entry %s not balanced: debit=%s credit=%s",
				e.Header.DocumentID, e.TotalDebit(), e.TotalCredit())
		}
	}
}

func TestGenerateIsDeterministicUnderSameSeed(t *testing.T) {
	pools1, err := masterdata.Generate(7, masterdata.DefaultOptions())
	if err != nil {
		t.Fatalf("masterdata.Generate: %v", err)
	}
	pools2, err := masterdata.Generate(7, masterdata.DefaultOptions())
	if err != nil {
		t.Fatalf("masterdata.Generate: %v", err)
	}
	cfg := config.Default()
	opts := smallOptions()

	result1, err := Generate(context.Background(), 7, pools1, cfg, opts, nil)
	if err != nil {
		t.Fatalf("Generate 1: %v", err)
	}
	result2, err := Generate(context.Background(), 7, pools2, cfg, opts, nil)
	if err != nil {
		t.Fatalf("Generate 2: %v", err)
	}
	if len(result1.Entries) != len(result2.Entries) {
		t.Fatalf("expected identical entry counts, got %d vs %d", len(result1.Entries), len(result2.Entries))
	}
	for i := range result1.Entries {
		a, b := result1.Entries[i], result2.Entries[i]
		if !a.TotalDebit().Equal(b.TotalDebit()) || a.Header.BusinessProcess != b.Header.BusinessProcess {
			t.Fatalf("entry %d diverged between identical-seed runs", i)
		}
	}
}

func TestGenerateProducesIntercompanyPairs(t *testing.T) {
	pools, err := masterdata.Generate(3, masterdata.DefaultOptions())
	if err != nil {
		t.Fatalf("masterdata.Generate: %v", err)
	}
	cfg := config.Default()

	result, err := Generate(context.Background(), 3, pools, cfg, smallOptions(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.ICPairs) == 0 {
		t.Fatal("expected at least one intercompany pair")
	}
	for _, p := range result.ICPairs {
		if !p.IsSymmetric() {
			t.Errorf("IC pair %s not symmetric", p.ICReference)
		}
	}
}

func TestGenerateRespectsContextCancellation(t *testing.T) {
	pools, err := masterdata.Generate(1, masterdata.DefaultOptions())
	if err != nil {
		t.Fatalf("masterdata.Generate: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Generate(ctx, 1, pools, config.Default(), smallOptions(), nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
