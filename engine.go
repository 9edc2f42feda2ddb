package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/synthledger/engine/anomaly"
	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/evaluator"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/ledgergen"
	"github.com/synthledger/engine/masterdata"
	"github.com/synthledger/engine/plugin"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/store"
	"github.com/synthledger/engine/temporal"
)

var tracer = otel.Tracer("github.com/synthledger/engine")

// Run is one configured, ready-to-execute generation pipeline. Build one
// with New and drive it to completion with Run.
type Run struct {
	cfg        config.Config
	masterData masterdata.Options
	ledger     ledgergen.Options

	logger  *slog.Logger
	plugins *plugin.Registry
	store   store.Store
}

// Option configures a Run at construction.
type Option func(*Run)

// WithLogger overrides the structured logger used for plugin-registration
// warnings and archival failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Run) { r.logger = logger }
}

// WithPlugin registers p against the run's plugin registry. A duplicate
// plugin name is logged and dropped rather than failing construction.
func WithPlugin(p plugin.Plugin) Option {
	return func(r *Run) {
		if err := r.plugins.Register(p); err != nil {
			r.logger.Warn("engine: plugin registration failed", "plugin", p.Name(), "error", err)
		}
	}
}

// WithStore archives every finished run's provenance to s. Without a
// store, Run never touches a database.
func WithStore(s store.Store) Option {
	return func(r *Run) { r.store = s }
}

// WithMasterData overrides the C3 company/employee/customer/vendor/
// material population. Defaults to masterdata.DefaultOptions.
func WithMasterData(opts masterdata.Options) Option {
	return func(r *Run) { r.masterData = opts }
}

// WithLedgerOptions overrides the C4 ledger-generation shape (date
// range, per-period entry counts, document-flow and intercompany
// volume). Defaults to ledgergen.DefaultOptions.
func WithLedgerOptions(opts ledgergen.Options) Option {
	return func(r *Run) { r.ledger = opts }
}

// New builds a Run from cfg, validating it eagerly per the §7 error
// taxonomy's "surface at construction; do not start the pipeline."
func New(cfg config.Config, opts ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	r := &Run{
		cfg:        cfg,
		masterData: masterdata.DefaultOptions(),
		ledger:     ledgergen.DefaultOptions(),
		logger:     slog.Default(),
		plugins:    plugin.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.plugins = r.plugins.WithLogger(r.logger)
	return r, nil
}

// Summary is the outcome of one completed pipeline run: the generated
// ledger data plus its coherence evaluation and any suggested config
// patches.
type Summary struct {
	RunID   id.ID
	Seed    uint64
	Result  *ledgergen.Result
	Report  evaluator.Report
	Patches []evaluator.ConfigPatch
}

// Run executes the full pipeline once: C3 master data, C4 ledger
// generation (which runs C5 anomaly injection and data-quality
// degradation internally), and C6 coherence evaluation. If a store was
// configured via WithStore, the finished run's provenance is archived
// before Run returns; archival failure is logged, never returned, since
// it must not retroactively invalidate an otherwise-successful run.
func (r *Run) Run(ctx context.Context) (*Summary, error) {
	runID := id.NewRunID()
	startedAt := time.Now()

	ctx, span := tracer.Start(ctx, "engine.Run", trace.WithAttributes(
		attribute.String("run.id", runID.String()),
		attribute.Int64("run.seed", int64(r.cfg.Seed)),
	))
	defer span.End()

	r.plugins.DispatchRunStart(ctx, runID.String(), r.cfg.Seed)

	summary, err := r.run(ctx, runID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.plugins.DispatchRunFailed(ctx, err)
		if r.store != nil {
			r.archiveFailure(ctx, runID, startedAt, err)
		}
		return nil, err
	}

	r.plugins.DispatchRunComplete(ctx, summary)
	if r.store != nil {
		if archErr := r.archiveSuccess(ctx, runID, startedAt, summary); archErr != nil {
			r.logger.Warn("engine: run archival failed", "run_id", runID.String(), "error", archErr)
		}
	}
	return summary, nil
}

func (r *Run) run(ctx context.Context, runID id.ID) (*Summary, error) {
	pools, err := r.generateMasterData(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: master data: %w", err)
	}

	result, err := r.generateLedger(ctx, pools)
	if err != nil {
		return nil, fmt.Errorf("engine: ledger generation: %w", err)
	}
	if !result.TrialBalancesBalanced() {
		r.logger.Warn("engine: trial balance out of balance", "run_id", runID.String())
	}
	if !result.EliminationsBalanced() {
		r.logger.Warn("engine: consolidation elimination out of balance", "run_id", runID.String())
	}

	report, patches := r.evaluate(ctx, pools, result)

	return &Summary{
		RunID:   runID,
		Seed:    r.cfg.Seed,
		Result:  result,
		Report:  report,
		Patches: patches,
	}, nil
}

func (r *Run) generateMasterData(ctx context.Context) (*masterdata.Pools, error) {
	_, span := tracer.Start(ctx, "engine.masterdata")
	defer span.End()
	return masterdata.Generate(r.cfg.Seed, r.masterData)
}

func (r *Run) generateLedger(ctx context.Context, pools *masterdata.Pools) (*ledgergen.Result, error) {
	ctx, span := tracer.Start(ctx, "engine.ledgergen")
	defer span.End()
	return ledgergen.Generate(ctx, r.cfg.Seed, pools, r.cfg, r.ledger, r.plugins)
}

func (r *Run) evaluate(ctx context.Context, pools *masterdata.Pools, result *ledgergen.Result) (evaluator.Report, []evaluator.ConfigPatch) {
	_, span := tracer.Start(ctx, "engine.evaluate")
	defer span.End()

	metrics := evaluator.Metrics{
		Benford:                 evaluator.EvaluateBenford(result.AmountPopulation()),
		AnomalyRate:             result.AnomalyRate(),
		DuplicateRate:           result.DuplicateRate(),
		ICMatchRate:             intercompany.MatchRate(result.ICPairs),
		DocumentChainCompletion: result.DocumentChainCompletion(),
		CompletenessRate:        result.CompletenessRate(),
		GraphConnectivity:       graphConnectivity(pools, result),
		TemporalCorrelation:     temporalCorrelation(r.cfg.Seed, result),
		LabelCoverage:           result.LabelCoverage(),
	}

	report := evaluator.NewReport(metrics, r.cfg.Thresholds)
	r.plugins.DispatchEvaluationComplete(ctx, report)

	var patches []evaluator.ConfigPatch
	if !report.Coherent {
		patches = evaluator.AutoTune(report.Violations).Patches
	}
	return report, patches
}

// graphConnectivity returns the fraction of companies in the pool that
// participate in at least one relationship-graph edge: an intercompany
// matched pair or a parent/subsidiary ownership link. Document chains
// are intra-company document flows, not cross-entity edges, so they
// don't count toward connectivity.
func graphConnectivity(pools *masterdata.Pools, result *ledgergen.Result) float64 {
	companies := pools.Companies.All()
	if len(companies) == 0 {
		return 1
	}

	connected := make(map[string]bool, len(companies))
	for _, p := range result.ICPairs {
		connected[p.SellerCompany] = true
		connected[p.BuyerCompany] = true
	}
	for _, c := range companies {
		if c.Ownership == nil {
			continue
		}
		connected[c.Code] = true
		if parent, ok := pools.Companies.ByID(c.Ownership.ParentID); ok {
			connected[parent.Code] = true
		}
	}
	return float64(len(connected)) / float64(len(companies))
}

// temporalCorrelation returns the Pearson correlation between each
// posting date's actual entry volume and that date's expected seasonal
// multiplier (business-day, holiday, and period-end weighting), under a
// fresh evaluator-tagged stream so this post-hoc analysis never reads
// the generation pipeline's own streams.
func temporalCorrelation(seed uint64, result *ledgergen.Result) float64 {
	if len(result.Entries) == 0 {
		return 1
	}

	sampler, err := temporal.NewSampler(rng.NewSource(seed, rng.TagEvaluator, 0))
	if err != nil {
		return 1
	}

	counts := make(map[time.Time]float64)
	for _, e := range result.Entries {
		day := e.Header.PostingDate.Truncate(24 * time.Hour)
		counts[day]++
	}
	if len(counts) < 2 {
		return 1
	}

	actual := make([]float64, 0, len(counts))
	expected := make([]float64, 0, len(counts))
	for day, n := range counts {
		actual = append(actual, n)
		expected = append(expected, sampler.Multiplier(day))
	}
	return stat.Correlation(actual, expected, nil)
}

func (r *Run) archiveSuccess(ctx context.Context, runID id.ID, startedAt time.Time, summary *Summary) error {
	rec := &store.RunRecord{
		RunID:       runID,
		Seed:        r.cfg.Seed,
		Status:      store.StatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		Config:      r.cfg,

		EntryCount:       len(summary.Result.Entries),
		AnomalyCount:     len(summary.Result.Anomalies),
		ICPairCount:      len(summary.Result.ICPairs),
		EliminationCount: len(summary.Result.Eliminations),

		Report:  summary.Report,
		Patches: summary.Patches,

		AnomalyLabelDigest: anomalyLabelDigest(summary.Result.Anomalies),
	}
	return r.store.SaveRun(ctx, rec)
}

func (r *Run) archiveFailure(ctx context.Context, runID id.ID, startedAt time.Time, runErr error) {
	rec := &store.RunRecord{
		RunID:         runID,
		Seed:          r.cfg.Seed,
		Status:        store.StatusFailed,
		StartedAt:     startedAt,
		CompletedAt:   time.Now(),
		Config:        r.cfg,
		FailureReason: runErr.Error(),
	}
	if err := r.store.SaveRun(ctx, rec); err != nil {
		r.logger.Warn("engine: failure archival failed", "run_id", runID.String(), "error", err)
	}
}

// anomalyLabelDigest summarizes a run's anomaly-subtype distribution
// into a stable hex digest, so two archived runs can be compared for
// label-shape drift without diffing every anomaly record.
func anomalyLabelDigest(anomalies []*anomaly.Anomaly) string {
	counts := make(map[anomaly.Subtype]int, len(anomalies))
	for _, a := range anomalies {
		counts[a.Subtype]++
	}

	subtypes := make([]string, 0, len(counts))
	for s := range counts {
		subtypes = append(subtypes, string(s))
	}
	sort.Strings(subtypes)

	var b strings.Builder
	for _, s := range subtypes {
		fmt.Fprintf(&b, "%s:%d;", s, counts[anomaly.Subtype(s)])
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}
