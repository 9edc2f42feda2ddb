package anomaly

import (
	"time"

	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/rng"
)

// Options configures the injector's selection loop (mirrors the relevant
// subset of config.AnomalyConfig so this package stays import-cycle free
// of config).
type Options struct {
	BaseRate         float64
	CategoryWeights  map[Category]float64
	PerDocumentCap   int
	Cluster          ClusterManagerOptions
	ClusteringOn     bool
}

// DefaultOptions mirrors config.Default()'s anomaly rate, category
// weights and per-document cap; its cluster options are
// DefaultClusterManagerOptions() (MaxSize 6, where config.Default() uses 8).
func DefaultOptions() Options {
	return Options{
		BaseRate: 0.02,
		CategoryWeights: map[Category]float64{
			CategoryFraud: 0.2, CategoryError: 0.2, CategoryProcess: 0.2,
			CategoryStatistical: 0.2, CategoryRelational: 0.2,
		},
		PerDocumentCap: 1,
		Cluster:        DefaultClusterManagerOptions(),
		ClusteringOn:   true,
	}
}

// Injector runs the anomaly selection loop over a stream of journal
// entries, applying strategy mutations and recording provenance.
type Injector struct {
	opts     Options
	clusters *ClusterManager
	counts   map[id.ID]int // entry ID -> anomalies applied, enforces PerDocumentCap
}

// NewInjector creates an injector bound to opts.
func NewInjector(opts Options) *Injector {
	return &Injector{opts: opts, clusters: NewClusterManager(opts.Cluster), counts: make(map[id.ID]int)}
}

// Consider decides whether entry should be mutated into an anomaly, and
// if so applies the chosen strategy and returns the resulting Anomaly
// record. temporalMultiplier is C2's Multiplier(date) for the entry's
// posting date, raising the effective rate during spike periods per §4.5.2.
func (inj *Injector) Consider(source *rng.Source, e *journal.Entry, temporalMultiplier float64, now time.Time) *Anomaly {
	if inj.counts[e.Header.DocumentID] >= inj.opts.PerDocumentCap {
		return nil
	}

	effectiveRate := inj.opts.BaseRate * temporalMultiplier
	if effectiveRate > 1 {
		effectiveRate = 1
	}
	if !source.GenBool(effectiveRate) {
		return nil
	}

	cat := inj.selectCategory(source)
	subtypes := SubtypesInCategory(cat)
	if len(subtypes) == 0 {
		return nil
	}
	subtype := subtypes[source.Choose(len(subtypes))]
	info := Taxonomy[subtype]

	strategy, ok := strategies[info.Strategy]
	if !ok || !strategy.CanApply(e) {
		return nil
	}

	beforeHash := HashEntry(*e)
	cf := strategy.Apply(source, e)
	e.Header.IsAnomaly = true
	if info.Intentional {
		e.Header.IsFraud = true
		e.Header.FraudType = string(subtype)
	}

	reason := inj.selectCausalReason(source, info)

	a := &Anomaly{
		ID:              id.New(id.PrefixAnomaly),
		Category:        cat,
		Subtype:         subtype,
		Severity:        info.DefaultSeverity,
		Intentional:     info.Intentional,
		AffectedEntryID: e.Header.DocumentID,
		Provenance: Provenance{
			OriginalDocumentHash: beforeHash,
			CausalReason:         reason,
			Counterfactual:       cf,
		},
		InjectedAt: now,
	}
	e.Header.AnomalyID = a.ID

	if inj.opts.ClusteringOn && cat == CategoryFraud {
		fraudCat := InferFraudCategory(string(e.Header.BusinessProcess))
		if cluster, _ := inj.clusters.Assign(source, fraudCat, a.ID); cluster != nil {
			a.ClusterID = cluster.ID
			a.Provenance.CausalReason = ReasonClusterMembership
		}
	}

	inj.counts[e.Header.DocumentID]++
	return a
}

// selectCategory performs a weighted draw over the configured category
// weights, falling back to uniform selection if weights are unset.
func (inj *Injector) selectCategory(source *rng.Source) Category {
	cats := []Category{CategoryFraud, CategoryError, CategoryProcess, CategoryStatistical, CategoryRelational}
	if len(inj.opts.CategoryWeights) == 0 {
		return cats[source.Choose(len(cats))]
	}
	pairs := make([]rng.WeightedPair, len(cats))
	for i, c := range cats {
		pairs[i] = rng.WeightedPair{Index: i, Weight: inj.opts.CategoryWeights[c]}
	}
	return cats[source.ChooseWeighted(pairs)]
}

// selectCausalReason picks a provenance reason biased by context: fraud
// subtypes lean toward EntityTargeting, clustering reasons are reserved
// for entries actually joining a cluster (handled by the caller setting
// ClusterID and ClusterMembership afterward), and everything else
// defaults to RandomRate.
func (inj *Injector) selectCausalReason(source *rng.Source, info SubtypeInfo) CausalReason {
	if info.Category == CategoryFraud && source.GenBool(0.4) {
		return ReasonEntityTargeting
	}
	return ReasonRandomRate
}
