// Package dataquality applies unlabeled background noise to an already
// generated entry population: missing optional fields, character typos,
// and accidental exact duplicates. This is distinct from the labeled
// anomaly package's DuplicatePosting/data-entry strategies — those are
// ML-labeled training signal; this package's degradation is the
// realistic, unlabeled noise every real ledger extract carries, so a
// downstream model can't learn "any imperfection is fraud."
package dataquality

import (
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/rng"
)

// Options configures the rate of each degradation kind, mirroring
// config.DataQualityConfig.
type Options struct {
	MissingValueRate   float64
	ExactDuplicateRate float64
	TypoCharErrorRate  float64
}

// Stats reports how much degradation was actually applied, so the
// caller can compute exact completeness/duplicate metrics without
// rescanning every field.
type Stats struct {
	Total           int
	MissingApplied  int
	TypoApplied     int
	DuplicatesAdded int
}

// optionalFields are the non-monetary, non-identifying line fields
// eligible to go missing — blanking any of them never unbalances an
// entry or changes its business meaning.
const (
	fieldCostCenter = iota
	fieldProfitCenter
	fieldTaxCode
	fieldAssignment
	fieldText
	fieldCount
)

// Degrade walks entries once, optionally blanking an optional field,
// introducing a single-character typo in free text, and appending an
// accidental exact duplicate, per opts's configured rates. The input
// slice is read-only; a new slice (the original length plus any
// duplicates) is returned.
func Degrade(source *rng.Source, entries []journal.Entry, opts Options) ([]journal.Entry, Stats) {
	stats := Stats{Total: len(entries)}
	out := make([]journal.Entry, 0, len(entries))

	for _, e := range entries {
		e.Lines = append([]journal.Line(nil), e.Lines...)
		if len(e.Lines) > 0 {
			if source.GenBool(opts.MissingValueRate) {
				blankOptionalField(source, &e.Lines[source.Choose(len(e.Lines))])
				stats.MissingApplied++
			}
			if source.GenBool(opts.TypoCharErrorRate) {
				line := &e.Lines[source.Choose(len(e.Lines))]
				if applyTypo(source, line) {
					stats.TypoApplied++
				}
			}
		}

		out = append(out, e)

		if source.GenBool(opts.ExactDuplicateRate) {
			out = append(out, e)
			stats.DuplicatesAdded++
		}
	}

	return out, stats
}

func blankOptionalField(source *rng.Source, line *journal.Line) {
	switch source.Choose(fieldCount) {
	case fieldCostCenter:
		line.CostCenter = ""
	case fieldProfitCenter:
		line.ProfitCenter = ""
	case fieldTaxCode:
		line.TaxCode = ""
	case fieldAssignment:
		line.Assignment = ""
	case fieldText:
		line.Text = ""
	}
}

// applyTypo swaps two adjacent characters in line.Text, returning false
// if the text is too short to carry a typo.
func applyTypo(source *rng.Source, line *journal.Line) bool {
	r := []rune(line.Text)
	if len(r) < 2 {
		return false
	}
	i := source.Choose(len(r) - 1)
	r[i], r[i+1] = r[i+1], r[i]
	line.Text = string(r)
	return true
}

// CompletenessRate returns the fraction of entries that emerged from
// Degrade without a field blanked.
func (s Stats) CompletenessRate() float64 {
	if s.Total == 0 {
		return 1
	}
	return 1 - float64(s.MissingApplied)/float64(s.Total)
}
