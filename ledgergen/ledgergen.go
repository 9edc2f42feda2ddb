package ledgergen

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/synthledger/engine/account"
	"github.com/synthledger/engine/anomaly"
	"github.com/synthledger/engine/company"
	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/dataquality"
	"github.com/synthledger/engine/docchain"
	"github.com/synthledger/engine/employee"
	"github.com/synthledger/engine/fx"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/intercompany"
	"github.com/synthledger/engine/journal"
	"github.com/synthledger/engine/masterdata"
	"github.com/synthledger/engine/openbal"
	"github.com/synthledger/engine/plugin"
	"github.com/synthledger/engine/rng"
	"github.com/synthledger/engine/temporal"
	"github.com/synthledger/engine/types"
)

// Generate runs the full C4 ledger-generation pipeline over pools,
// driven by cfg's anomaly/document-flow/intercompany settings and
// opts's volume and date-range settings. registry may be nil; when
// present, every lifecycle hook (entry generated, anomaly injected,
// cluster formed, stage complete) is dispatched to it.
func Generate(ctx context.Context, masterSeed uint64, pools *masterdata.Pools, cfg config.Config, opts Options, registry *plugin.Registry) (*Result, error) {
	stageStart := time.Now()

	temporalSource := rng.NewSource(masterSeed, rng.TagTemporal, 0)
	sampler, err := temporal.NewSampler(temporalSource, temporal.WithFallbackDate(opts.Start))
	if err != nil {
		return nil, fmt.Errorf("ledgergen: temporal sampler: %w", err)
	}

	journalSource := rng.NewSource(masterSeed, rng.TagJournal, 0)
	employeeSource := rng.NewSource(masterSeed, rng.TagJournal, 1)
	anomalySource := rng.NewSource(masterSeed, rng.TagAnomaly, 0)
	icSource := rng.NewSource(masterSeed, rng.TagIntercompany, 0)
	docSource := rng.NewSource(masterSeed, rng.TagDocChain, 0)

	injector := anomaly.NewInjector(anomalyOptionsFromConfig(cfg))

	result := &Result{
		OpeningBalances: make(map[string]openbal.Balances),
		FXTable:         buildFXTable(pools, opts),
	}

	for code, spec := range opts.OpeningBalanceSpecs {
		balances, err := openbal.Allocate(spec)
		if err != nil {
			return nil, fmt.Errorf("ledgergen: opening balances for %s: %w", code, err)
		}
		result.OpeningBalances[code] = balances
	}

	for _, comp := range pools.Companies.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := generateCompanyActivity(ctx, comp, pools, opts, sampler, journalSource, employeeSource, anomalySource, injector, registry, result); err != nil {
			return nil, fmt.Errorf("ledgergen: company %s: %w", comp.Code, err)
		}
		if err := generateDocChains(comp, opts, docSource, result); err != nil {
			return nil, fmt.Errorf("ledgergen: document chains for %s: %w", comp.Code, err)
		}
	}

	if err := generateIntercompanyActivity(pools, opts, icSource, result); err != nil {
		return nil, fmt.Errorf("ledgergen: intercompany: %w", err)
	}

	qualitySource := rng.NewSource(masterSeed, rng.TagJournal, 2)
	degraded, stats := dataquality.Degrade(qualitySource, result.Entries, dataQualityOptionsFromConfig(cfg))
	result.Entries = degraded
	result.QualityStats = stats

	result.TrialBalances = buildTrialBalances(pools, opts, result)
	result.Eliminations = buildEliminations(pools, opts, result)

	dispatchStageComplete(ctx, registry, "C4:ledgergen", stageStart)
	return result, nil
}

// dataQualityOptionsFromConfig adapts config.DataQualityConfig into the
// dataquality package's own Options shape.
func dataQualityOptionsFromConfig(cfg config.Config) dataquality.Options {
	return dataquality.Options{
		MissingValueRate:   cfg.DataQuality.MissingValueRate,
		ExactDuplicateRate: cfg.DataQuality.ExactDuplicateRate,
		TypoCharErrorRate:  cfg.DataQuality.TypoCharErrorRate,
	}
}

// anomalyOptionsFromConfig adapts config.AnomalyConfig into the
// anomaly package's own Options shape (kept import-cycle free of
// config by design, per anomaly/inject.go's doc comment).
func anomalyOptionsFromConfig(cfg config.Config) anomaly.Options {
	weights := map[anomaly.Category]float64{
		anomaly.CategoryFraud:       cfg.Anomaly.CategoryWeights.Fraud,
		anomaly.CategoryError:       cfg.Anomaly.CategoryWeights.Error,
		anomaly.CategoryProcess:     cfg.Anomaly.CategoryWeights.Process,
		anomaly.CategoryStatistical: cfg.Anomaly.CategoryWeights.Statistical,
		anomaly.CategoryRelational:  cfg.Anomaly.CategoryWeights.Relational,
	}
	return anomaly.Options{
		BaseRate:        cfg.Anomaly.BaseRate,
		CategoryWeights: weights,
		PerDocumentCap:  cfg.Anomaly.PerDocumentCap,
		ClusteringOn:    cfg.Anomaly.Clustering.Enabled,
		Cluster: anomaly.ClusterManagerOptions{
			StartP:        cfg.Anomaly.Clustering.StartP,
			ContinuationP: cfg.Anomaly.Clustering.ContinuationP,
			MinSize:       cfg.Anomaly.Clustering.MinSize,
			MaxSize:       cfg.Anomaly.Clustering.MaxSize,
		},
	}
}

// buildFXTable seeds a run's FX table from opts.FXRates, rooted at the
// first company's base currency. A single-currency run never looks up a
// rate, per §3's same-currency invariant.
func buildFXTable(pools *masterdata.Pools, opts Options) *fx.Table {
	base := "usd"
	if companies := pools.Companies.All(); len(companies) > 0 {
		base = companies[0].BaseCurrency
	}
	table := fx.NewTable(base)
	for _, r := range opts.FXRates {
		table.Add(r)
	}
	return table
}

// generateCompanyActivity emits opts.EntriesPerCompanyPeriod journal
// entries per calendar-month cell between opts.Start and opts.End for
// one company, running each through the anomaly injector and dispatching
// plugin hooks.
func generateCompanyActivity(
	ctx context.Context,
	comp company.Company,
	pools *masterdata.Pools,
	opts Options,
	sampler *temporal.Sampler,
	journalSource, employeeSource, anomalySource *rng.Source,
	injector *anomaly.Injector,
	registry *plugin.Registry,
	result *Result,
) error {
	templates := journal.Templates()
	eligibleCreators := creatorsByTxnCode(pools.Employees)

	cursor := opts.Start
	for cursor.Before(opts.End) {
		periodEnd := endOfMonth(cursor)
		if periodEnd.After(opts.End) {
			periodEnd = opts.End
		}

		for i := 0; i < opts.EntriesPerCompanyPeriod; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			process := selectProcess(journalSource, opts.ProcessWeights, templates)
			template, ok := templates[process]
			if !ok {
				continue
			}

			date, err := sampler.SampleDate(cursor, periodEnd)
			if err != nil {
				return fmt.Errorf("sample date: %w", err)
			}
			fiscalYear, fiscalPeriod := comp.FiscalCalendar.FiscalYearAndPeriod(date.Year(), int(date.Month()))

			amount := opts.AmountDistribution.Sample(journalSource)
			total, err := types.New(amount.StringFixed(2), comp.BaseCurrency)
			if err != nil {
				return fmt.Errorf("build amount: %w", err)
			}

			entry := buildEntry(comp, template, total, date, fiscalYear, fiscalPeriod)
			if !assignCreatorAndApprover(entry, eligibleCreators[template.TxnCode], pools.Employees, employeeSource, template.TxnCode) {
				result.UnroutableApprovals++
			}

			multiplier := sampler.Multiplier(date)
			injected := injector.Consider(anomalySource, entry, multiplier, date)

			dispatchEntryGenerated(ctx, registry, entry)
			if injected != nil {
				formed := !injected.ClusterID.IsNil()
				for _, prior := range result.Anomalies {
					if formed && prior.ClusterID == injected.ClusterID {
						formed = false
						break
					}
				}
				result.Anomalies = append(result.Anomalies, injected)
				dispatchAnomalyInjected(ctx, registry, injected, formed)
			}

			result.Entries = append(result.Entries, *entry)
			if injected != nil && anomaly.Taxonomy[injected.Subtype].Strategy == anomaly.StrategyDuplication {
				sibling := *entry
				sibling.Lines = append([]journal.Line(nil), entry.Lines...)
				sibling.Header.DocumentID = id.New(id.PrefixJournalEntry)
				result.Entries = append(result.Entries, sibling)
			}
		}

		cursor = firstOfNextMonth(cursor)
	}
	return nil
}

// selectProcess chooses a business process by configured weight, falling
// back to uniform selection across every defined template.
func selectProcess(source *rng.Source, weights map[journal.BusinessProcess]float64, templates map[journal.BusinessProcess]journal.Template) journal.BusinessProcess {
	processes := processesWithTemplates(templates)
	if len(weights) == 0 {
		return processes[source.Choose(len(processes))]
	}
	pairs := make([]rng.WeightedPair, len(processes))
	for i, p := range processes {
		pairs[i] = rng.WeightedPair{Index: i, Weight: weights[p]}
	}
	return processes[source.ChooseWeighted(pairs)]
}

// processesWithTemplates returns every templated process except IC,
// which is generated exclusively through generateIntercompanyActivity to
// avoid posting IC-shaped entries outside a matched pair.
func processesWithTemplates(templates map[journal.BusinessProcess]journal.Template) []journal.BusinessProcess {
	var out []journal.BusinessProcess
	for p := range templates {
		if p == journal.ProcessIC {
			continue
		}
		out = append(out, p)
	}
	// Stable order regardless of map iteration, since this feeds a
	// weighted-index draw whose reproducibility depends on it.
	sortProcesses(out)
	return out
}

func sortProcesses(p []journal.BusinessProcess) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && p[j] < p[j-1]; j-- {
			p[j], p[j-1] = p[j-1], p[j]
		}
	}
}

// buildEntry constructs a balanced two-sided entry from template,
// allocating total to each account pattern per its declared side.
func buildEntry(comp company.Company, template journal.Template, total types.Money, date time.Time, fiscalYear, fiscalPeriod int) *journal.Entry {
	lines := make([]journal.Line, 0, len(template.Lines))
	for i, pattern := range template.Lines {
		line := journal.Line{LineNo: i + 1, Account: pattern.AccountCode}
		if pattern.Side == account.Debit {
			line.DebitAmount = total
		} else {
			line.CreditAmount = total
		}
		lines = append(lines, line)
	}

	return &journal.Entry{
		Header: journal.Header{
			DocumentID:      id.New(id.PrefixJournalEntry),
			Company:         comp.Code,
			PostingDate:     date,
			DocumentDate:    date,
			FiscalYear:      fiscalYear,
			FiscalPeriod:    fiscalPeriod,
			Currency:        comp.BaseCurrency,
			ExchangeRate:    decimal.NewFromInt(1),
			Source:          "ledgergen",
			Status:          journal.StatusPosted,
			BusinessProcess: template.Process,
		},
		Lines: lines,
	}
}

// creatorsByTxnCode indexes employees by the transaction codes they
// hold, so the per-entry creator draw doesn't rescan the whole pool.
func creatorsByTxnCode(pool *employee.Pool) map[string][]employee.Employee {
	out := make(map[string][]employee.Employee)
	for _, e := range pool.All() {
		for code := range e.AuthorizedTxnCodes {
			out[code] = append(out[code], e)
		}
	}
	return out
}

// assignCreatorAndApprover picks a creator holding txnCode and, when the
// entry's gross amount exceeds the creator's limit, routes to the
// lowest-limit qualifying approver distinct from the creator, per
// §4.3.4's segregation-of-duties invariant. Returns false when no
// qualifying approver exists within the hierarchy — an unsatisfiable
// routing constraint per §7, recoverable and reported via the caller's
// diagnostic counter rather than silently assigning an under-limit
// approver or aborting the run.
func assignCreatorAndApprover(entry *journal.Entry, candidates []employee.Employee, pool *employee.Pool, source *rng.Source, txnCode string) bool {
	if len(candidates) == 0 {
		return true
	}
	creator := candidates[source.Choose(len(candidates))]
	entry.Header.CreatedBy = creator.ID

	grossMinor := entry.TotalDebit().Amount.Shift(int32(entry.TotalDebit().Scale())).Round(0).IntPart()
	if grossMinor <= creator.ApprovalLimit {
		return true
	}
	approvers := pool.ApproversAtOrAbove(grossMinor, creator.ID, txnCode)
	if len(approvers) == 0 {
		return false
	}
	entry.Header.ApprovedBy = approvers[0].ID
	return true
}

// generateIntercompanyActivity produces opts.ICEventsPerPeriod matched
// pairs per calendar-month cell between the first two companies in the
// pool (a run with fewer than two companies has no IC activity to
// generate, per §4.3.3 requiring a seller and a buyer).
func generateIntercompanyActivity(pools *masterdata.Pools, opts Options, source *rng.Source, result *Result) error {
	companies := pools.Companies.All()
	if len(companies) < 2 || opts.ICEventsPerPeriod == 0 || len(opts.ICTransactionTypes) == 0 {
		return nil
	}
	seller, buyer := companies[0], companies[1]

	cursor := opts.Start
	for cursor.Before(opts.End) {
		periodEnd := endOfMonth(cursor)
		if periodEnd.After(opts.End) {
			periodEnd = opts.End
		}
		for i := 0; i < opts.ICEventsPerPeriod; i++ {
			txnType := opts.ICTransactionTypes[source.Choose(len(opts.ICTransactionTypes))]
			grossMajor := 1000 + source.GenRange(0, 49000)
			gross, err := types.New(decimal.NewFromInt(grossMajor).StringFixed(2), seller.BaseCurrency)
			if err != nil {
				return err
			}

			pair, err := intercompany.Build(seller.Code, buyer.Code, txnType, gross, opts.WithholdingTaxRate)
			if err != nil {
				return fmt.Errorf("build IC pair: %w", err)
			}

			date, err := temporalDateFallback(periodEnd, cursor)
			if err != nil {
				return err
			}
			pair.SellerDoc.Header.PostingDate = date
			pair.SellerDoc.Header.DocumentDate = date
			pair.BuyerDoc.Header.PostingDate = date
			pair.BuyerDoc.Header.DocumentDate = date

			result.ICPairs = append(result.ICPairs, pair)
			result.Entries = append(result.Entries, pair.SellerDoc, pair.BuyerDoc)
		}
		cursor = firstOfNextMonth(cursor)
	}
	return nil
}

// temporalDateFallback centers the IC posting date in the period cell;
// intercompany events post once per configured count rather than
// drawing from the temporal sampler's weighted distribution, since §4.3.3
// doesn't call for seasonal IC timing.
func temporalDateFallback(periodEnd, periodStart time.Time) (time.Time, error) {
	mid := periodStart.Add(periodEnd.Sub(periodStart) / 2)
	return mid, nil
}

// generateDocChains runs opts.DocChainsPerCompanyPeriod procure-to-pay
// chains per calendar-month cell for comp, advancing each to completion
// or a realistic open intermediate state per §4.3.2.
func generateDocChains(comp company.Company, opts Options, source *rng.Source, result *Result) error {
	if opts.DocChainsPerCompanyPeriod == 0 {
		return nil
	}
	completionRate := 0.7

	cursor := opts.Start
	for cursor.Before(opts.End) {
		for i := 0; i < opts.DocChainsPerCompanyPeriod; i++ {
			root := &docchain.Document{
				ID:      id.New(id.PrefixPR),
				Type:    docchain.DocPR,
				Company: comp.Code,
				Status:  docchain.StatusDraft,
				Lines: []docchain.LineItem{
					{LineNo: 1, Quantity: 1, UnitPrice: types.Zero(comp.BaseCurrency)},
				},
				NetTotal:   types.Zero(comp.BaseCurrency),
				TaxTotal:   types.Zero(comp.BaseCurrency),
				GrossTotal: types.Zero(comp.BaseCurrency),
			}
			if err := docchain.AdvanceWithCompletionRate(source, root, completionRate); err != nil {
				return fmt.Errorf("advance PR chain: %w", err)
			}
			result.DocChains = append(result.DocChains, &docchain.Chain{Documents: []*docchain.Document{root}})
		}
		cursor = firstOfNextMonth(cursor)
	}
	return nil
}

func endOfMonth(d time.Time) time.Time {
	firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return firstOfMonth.AddDate(0, 1, -1)
}

func firstOfNextMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, 1, 0)
}

func dispatchEntryGenerated(ctx context.Context, registry *plugin.Registry, entry *journal.Entry) {
	if registry == nil {
		return
	}
	registry.DispatchEntryGenerated(ctx, entry)
}

func dispatchAnomalyInjected(ctx context.Context, registry *plugin.Registry, a *anomaly.Anomaly, clusterFormed bool) {
	if registry == nil {
		return
	}
	registry.DispatchAnomalyInjected(ctx, a)
	if clusterFormed {
		registry.DispatchClusterFormed(ctx, a)
	}
}

func dispatchStageComplete(ctx context.Context, registry *plugin.Registry, stage string, start time.Time) {
	if registry == nil {
		return
	}
	registry.DispatchStageComplete(ctx, stage, time.Since(start).Milliseconds())
}
