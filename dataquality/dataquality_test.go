package dataquality

import (
	"testing"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/types"
)

func sampleEntries(n int) []journal.Entry {
	out := make([]journal.Entry, n)
	for i := range out {
		amt, _ := types.New("100.00", "usd")
		out[i] = journal.Entry{
			Header: journal.Header{DocumentID: id.NewJournalEntryID()},
			Lines: []journal.Line{
				{LineNo: 1, Account: "1000", DebitAmount: amt, Text: "original text"},
				{LineNo: 2, Account: "4000", CreditAmount: amt, Text: "original text"},
			},
		}
	}
	return out
}

func TestDegradeNoOpAtZeroRates(t *testing.T) {
	source := rng.NewSource(1, rng.TagJournal, 99)
	entries := sampleEntries(20)

	out, stats := Degrade(source, entries, Options{})
	if len(out) != 20 {
		t.Fatalf("expected no duplicates at zero rate, got %d entries", len(out))
	}
	if stats.MissingApplied != 0 || stats.TypoApplied != 0 || stats.DuplicatesAdded != 0 {
		t.Fatalf("expected zero degradation at zero rates, got %+v", stats)
	}
	if stats.CompletenessRate() != 1 {
		t.Fatalf("expected completeness 1.0, got %f", stats.CompletenessRate())
	}
}

func TestDegradeAppliesAtFullRates(t *testing.T) {
	source := rng.NewSource(1, rng.TagJournal, 99)
	entries := sampleEntries(20)

	out, stats := Degrade(source, entries, Options{
		MissingValueRate:   1,
		ExactDuplicateRate: 1,
		TypoCharErrorRate:  1,
	})
	if len(out) != 40 {
		t.Fatalf("expected every entry duplicated, got %d entries", len(out))
	}
	if stats.MissingApplied != 20 {
		t.Fatalf("expected every entry degraded, got %d", stats.MissingApplied)
	}
	if stats.DuplicatesAdded != 20 {
		t.Fatalf("expected 20 duplicates, got %d", stats.DuplicatesAdded)
	}
	if stats.CompletenessRate() != 0 {
		t.Fatalf("expected completeness 0.0, got %f", stats.CompletenessRate())
	}
}

func TestDegradeIsDeterministic(t *testing.T) {
	opts := Options{MissingValueRate: 0.5, ExactDuplicateRate: 0.3, TypoCharErrorRate: 0.4}

	out1, stats1 := Degrade(rng.NewSource(42, rng.TagJournal, 99), sampleEntries(30), opts)
	out2, stats2 := Degrade(rng.NewSource(42, rng.TagJournal, 99), sampleEntries(30), opts)

	if len(out1) != len(out2) || stats1 != stats2 {
		t.Fatalf("expected identical degradation under identical seed: %+v vs %+v", stats1, stats2)
	}
}
