package engine

import (
	"context"
	"testing"
	"time"

	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/ledgergen"
	"github.com/synthledger/engine/masterdata"
	"github.com/synthledger/engine/store/memory"
)

func smallLedgerOptions() ledgergen.Options {
	opts := ledgergen.DefaultOptions()
	opts.Start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	opts.End = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	opts.EntriesPerCompanyPeriod = 15
	opts.ICEventsPerPeriod = 1
	opts.DocChainsPerCompanyPeriod = 2
	return opts
}

func TestRunProducesCoherentSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 7

	run, err := New(cfg, WithMasterData(masterdata.DefaultOptions()), WithLedgerOptions(smallLedgerOptions()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Result.Entries) == 0 {
		t.Fatal("expected at least one journal entry")
	}
	if summary.RunID.IsNil() {
		t.Fatal("expected a non-nil run ID")
	}
	if summary.Report.Metrics.Benford.SampleSize == 0 {
		t.Fatal("expected a non-empty Benford sample")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 99

	run1, err := New(cfg, WithLedgerOptions(smallLedgerOptions()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	run2, err := New(cfg, WithLedgerOptions(smallLedgerOptions()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary1, err := run1.Run(context.Background())
	if err != nil {
		t.Fatalf("Run 1: %v", err)
	}
	summary2, err := run2.Run(context.Background())
	if err != nil {
		t.Fatalf("Run 2: %v", err)
	}

	if len(summary1.Result.Entries) != len(summary2.Result.Entries) {
		t.Fatalf("expected identical entry counts, got %d vs %d",
			len(summary1.Result.Entries), len(summary2.Result.Entries))
	}
	for i := range summary1.Result.Entries {
		a, b := summary1.Result.Entries[i], summary2.Result.Entries[i]
		if !a.TotalDebit().Equal(b.TotalDebit()) || a.Header.BusinessProcess != b.Header.BusinessProcess {
			t.Fatalf("entry %d diverged between identical-seed runs", i)
		}
	}
	if summary1.Report.Metrics.Benford.SampleSize != summary2.Report.Metrics.Benford.SampleSize {
		t.Fatalf("expected identical Benford sample size across identical-seed runs, got %d vs %d",
			summary1.Report.Metrics.Benford.SampleSize, summary2.Report.Metrics.Benford.SampleSize)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Anomaly.CategoryWeights.Fraud = 0 // unbalances the 1.0 sum invariant

	if _, err := New(cfg); err == nil {
		t.Fatal("expected New to reject an invalid config")
	}
}

func TestRunArchivesToStore(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 3
	s := memory.New()

	run, err := New(cfg, WithLedgerOptions(smallLedgerOptions()), WithStore(s))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec, err := s.GetRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if rec.EntryCount != len(summary.Result.Entries) {
		t.Errorf("archived entry count %d, want %d", rec.EntryCount, len(summary.Result.Entries))
	}
}
