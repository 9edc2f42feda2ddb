// Package config defines the engine's structured configuration object
// and its construction-time validation. Per spec.md's explicit
// Non-goal, this package never reads a file from disk or parses CLI
// flags — Config is a plain Go struct the host assembles and validates
// eagerly, exactly mirroring how the teacher's functional-option configs
// validate at construction rather than at use.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// CategoryWeights are the C5 anomaly category selection weights. They
// must sum to 1.0 within tolerance 0.01, per §7's Config error taxonomy.
type CategoryWeights struct {
	Fraud      float64 `validate:"gte=0"`
	Error      float64 `validate:"gte=0"`
	Process    float64 `validate:"gte=0"`
	Statistical float64 `validate:"gte=0"`
	Relational float64 `validate:"gte=0"`
}

// Sum returns the total of all category weights.
func (w CategoryWeights) Sum() float64 {
	return w.Fraud + w.Error + w.Process + w.Statistical + w.Relational
}

// Clustering configures the C5 cluster manager.
type Clustering struct {
	Enabled                 bool
	StartP                  float64 `validate:"gte=0,lte=1"`
	ContinuationP           float64 `validate:"gte=0,lte=1"`
	MinSize                 int     `validate:"gte=1"`
	MaxSize                 int     `validate:"gtefield=MinSize"`
	WindowDays              int     `validate:"gte=1"`
	UseFraudSpecificWindows bool
	PreserveRelationships   bool
}

// AnomalyConfig configures the C5 anomaly injector.
type AnomalyConfig struct {
	BaseRate         float64 `validate:"gte=0,lte=1"`
	CategoryWeights  CategoryWeights
	PerSubtypeWeights map[string]float64
	TemporalPattern  string
	Clustering       Clustering
	PerDocumentCap   int `validate:"gte=0"`
}

// DocumentFlowConfig configures completion rates for P2P/O2C chains.
type DocumentFlowConfig struct {
	CompletionRate float64 `validate:"gte=0,lte=1"`
}

// IntercompanyConfig configures IC matching behavior.
type IntercompanyConfig struct {
	MatchPrecision       float64 `validate:"gte=0,lte=1"`
	TransferPricingMethod string
	MarkupPercent        float64 `validate:"gte=0"`
}

// DataQualityConfig configures synthetic data-quality degradation.
type DataQualityConfig struct {
	MissingValueRate float64 `validate:"gte=0,lte=1"`
	ExactDuplicateRate float64 `validate:"gte=0,lte=1"`
	TypoCharErrorRate float64 `validate:"gte=0,lte=1"`
}

// FiscalCalendarConfig configures the default fiscal calendar.
type FiscalCalendarConfig struct {
	StartMonth   int `validate:"gte=1,lte=12"`
	PeriodLength int `validate:"gte=1,lte=12"`
}

// PopulationConfig configures master-data population sizes.
type PopulationConfig struct {
	RetailCount   int `validate:"gte=0"`
	BusinessCount int `validate:"gte=0"`
	TrustCount    int `validate:"gte=0"`
}

// EvaluationThresholds declares the targets C6 evaluates against (§4.6.2).
type EvaluationThresholds struct {
	BenfordPValueMin            float64 `validate:"gte=0,lte=1"`
	AnomalyRateMin              float64 `validate:"gte=0,lte=1"`
	AnomalyRateMax              float64 `validate:"gte=0,lte=1"`
	DuplicateRateMax            float64 `validate:"gte=0,lte=1"`
	ICMatchRateMin              float64 `validate:"gte=0,lte=1"`
	DocumentChainCompletionMin  float64 `validate:"gte=0,lte=1"`
	CompletenessRateMin         float64 `validate:"gte=0,lte=1"`
	GraphConnectivityMin        float64 `validate:"gte=0,lte=1"`
	TemporalCorrelationMin      float64 `validate:"gte=0,lte=1"`
	LabelCoverageMin            float64 `validate:"gte=0,lte=1"`
}

// DefaultEvaluationThresholds returns the spec's stated default bands.
func DefaultEvaluationThresholds() EvaluationThresholds {
	return EvaluationThresholds{
		BenfordPValueMin:           0.05,
		AnomalyRateMin:             0.01,
		AnomalyRateMax:             0.10,
		DuplicateRateMax:           0.02,
		ICMatchRateMin:             0.95,
		DocumentChainCompletionMin: 0.70,
		CompletenessRateMin:        0.95,
		GraphConnectivityMin:       0.90,
		TemporalCorrelationMin:     0.8,
		LabelCoverageMin:           1.0,
	}
}

// Config is the engine's full input configuration (§6).
type Config struct {
	Seed            uint64
	FiscalCalendar  FiscalCalendarConfig
	Population      PopulationConfig
	Anomaly         AnomalyConfig
	DocumentFlows   struct {
		P2P DocumentFlowConfig
		O2C DocumentFlowConfig
	}
	Intercompany  IntercompanyConfig
	DataQuality   DataQualityConfig
	Thresholds    EvaluationThresholds
	BenfordCompliance bool
}

// Option is a functional option for building a Config, mirroring the
// teacher's `ledger.Option` pattern.
type Option func(*Config)

// WithSeed sets the master seed.
func WithSeed(seed uint64) Option { return func(c *Config) { c.Seed = seed } }

// WithAnomalyBaseRate sets the base anomaly injection rate.
func WithAnomalyBaseRate(rate float64) Option {
	return func(c *Config) { c.Anomaly.BaseRate = rate }
}

// WithCategoryWeights sets the anomaly category weights.
func WithCategoryWeights(w CategoryWeights) Option {
	return func(c *Config) { c.Anomaly.CategoryWeights = w }
}

// WithClustering sets the cluster manager configuration.
func WithClustering(cl Clustering) Option { return func(c *Config) { c.Anomaly.Clustering = cl } }

// WithThresholds overrides the evaluation thresholds.
func WithThresholds(t EvaluationThresholds) Option { return func(c *Config) { c.Thresholds = t } }

// WithBenfordCompliance toggles Benford-targeted amount sampling.
func WithBenfordCompliance(enabled bool) Option {
	return func(c *Config) { c.BenfordCompliance = enabled }
}

// Default returns a baseline Config matching spec §8 scenario 1's shape
// (equal category weights, 2% base rate).
func Default() Config {
	equalWeight := 0.2
	var c Config
	c.Seed = 42
	c.FiscalCalendar = FiscalCalendarConfig{StartMonth: 1, PeriodLength: 1}
	c.Population = PopulationConfig{RetailCount: 50, BusinessCount: 30, TrustCount: 5}
	c.Anomaly = AnomalyConfig{
		BaseRate: 0.02,
		CategoryWeights: CategoryWeights{
			Fraud: equalWeight, Error: equalWeight, Process: equalWeight,
			Statistical: equalWeight, Relational: equalWeight,
		},
		TemporalPattern: "uniform",
		Clustering: Clustering{
			Enabled: true, StartP: 0.3, ContinuationP: 0.7,
			MinSize: 2, MaxSize: 8, WindowDays: 30,
			UseFraudSpecificWindows: true, PreserveRelationships: true,
		},
		PerDocumentCap: 1,
	}
	c.DocumentFlows.P2P = DocumentFlowConfig{CompletionRate: 0.7}
	c.DocumentFlows.O2C = DocumentFlowConfig{CompletionRate: 0.7}
	c.Intercompany = IntercompanyConfig{MatchPrecision: 0.01, TransferPricingMethod: "CostPlus", MarkupPercent: 5}
	c.DataQuality = DataQualityConfig{MissingValueRate: 0.01, ExactDuplicateRate: 0.005, TypoCharErrorRate: 0.01}
	c.Thresholds = DefaultEvaluationThresholds()
	c.BenfordCompliance = true
	return c
}

// New builds a Config from options over the Default baseline and
// validates it eagerly, per the Config error taxonomy: "Surface at
// construction; do not start the pipeline."
func New(opts ...Option) (Config, error) {
	c := Default()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var validate = validator.New()

// Validate runs struct-tag validation plus the cross-field checks that
// validator tags alone can't express (category weights summing to 1.0
// within 0.01, base rate in [0, 1], anomaly rate min <= max). Industry
// composition is not checked.
func (c Config) Validate() error {
	var agg error

	if err := validate.Struct(c.Anomaly.CategoryWeights); err != nil {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: category weights: %w", err))
	}
	if sum := c.Anomaly.CategoryWeights.Sum(); math.Abs(sum-1.0) > 0.01 {
		agg = multierr.Append(agg, fmt.Errorf(
			"engine/config: category weights sum to %.4f, want 1.0 ± 0.01", sum))
	}

	if err := validate.Struct(c.Anomaly.Clustering); err != nil {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: clustering: %w", err))
	}
	if err := validate.Struct(c.FiscalCalendar); err != nil {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: fiscal calendar: %w", err))
	}
	if err := validate.Struct(c.Population); err != nil {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: population: %w", err))
	}
	if err := validate.Struct(c.Thresholds); err != nil {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: thresholds: %w", err))
	}
	if c.Anomaly.BaseRate < 0 || c.Anomaly.BaseRate > 1 {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: anomaly base rate %.4f out of [0,1]", c.Anomaly.BaseRate))
	}
	if c.Thresholds.AnomalyRateMin > c.Thresholds.AnomalyRateMax {
		agg = multierr.Append(agg, fmt.Errorf("engine/config: anomaly_rate_min > anomaly_rate_max"))
	}

	return agg
}
