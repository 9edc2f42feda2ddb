package evaluator

import "github.com/synthledger/engine/config"

// Metrics aggregates every measurement C6 computes over a completed run,
// per §4.6.1's four metric families (statistical, coherence, quality,
// ML-readiness).
type Metrics struct {
	Benford                  BenfordResult
	AnomalyRate               float64
	DuplicateRate             float64
	ICMatchRate               float64
	DocumentChainCompletion   float64
	CompletenessRate          float64
	GraphConnectivity         float64
	TemporalCorrelation       float64
	LabelCoverage             float64
}

// Violation names one metric that fell outside its configured threshold.
type Violation struct {
	Metric   string
	Value    float64
	Bound    float64
	TooLow   bool // true if Value < Bound (a minimum threshold), false if Value > Bound (a maximum)
}

// Evaluate compares Metrics against thresholds and returns every
// violated bound, per §4.6.2.
func Evaluate(m Metrics, t config.EvaluationThresholds) []Violation {
	var out []Violation

	check := func(name string, value, bound float64, isMin bool) {
		if isMin && value < bound {
			out = append(out, Violation{Metric: name, Value: value, Bound: bound, TooLow: true})
		}
		if !isMin && value > bound {
			out = append(out, Violation{Metric: name, Value: value, Bound: bound, TooLow: false})
		}
	}

	check("benford_p_value", m.Benford.PValue, t.BenfordPValueMin, true)
	check("anomaly_rate", m.AnomalyRate, t.AnomalyRateMin, true)
	check("anomaly_rate", m.AnomalyRate, t.AnomalyRateMax, false)
	check("duplicate_rate", m.DuplicateRate, t.DuplicateRateMax, false)
	check("ic_match_rate", m.ICMatchRate, t.ICMatchRateMin, true)
	check("document_chain_completion", m.DocumentChainCompletion, t.DocumentChainCompletionMin, true)
	check("completeness_rate", m.CompletenessRate, t.CompletenessRateMin, true)
	check("graph_connectivity", m.GraphConnectivity, t.GraphConnectivityMin, true)
	check("temporal_correlation", m.TemporalCorrelation, t.TemporalCorrelationMin, true)
	check("label_coverage", m.LabelCoverage, t.LabelCoverageMin, true)

	return out
}

// Report is the full evaluation output for a run.
type Report struct {
	Metrics    Metrics
	Violations []Violation
	Coherent   bool
}

// NewReport produces a full Report, where Coherent is true only when no
// threshold is violated.
func NewReport(m Metrics, t config.EvaluationThresholds) Report {
	v := Evaluate(m, t)
	return Report{Metrics: m, Violations: v, Coherent: len(v) == 0}
}
