package evaluator

// PatchStrategy names how a ConfigPatch derives its suggested value from
// the current value and the violation gap, per §4.6.3.
type PatchStrategy string

// Patch strategies.
const (
	StrategyEnableBoolean      PatchStrategy = "EnableBoolean"
	StrategySetToTarget        PatchStrategy = "SetToTarget"
	StrategyIncreaseByGap      PatchStrategy = "IncreaseByGap"
	StrategyDecreaseByGap      PatchStrategy = "DecreaseByGap"
	StrategySetFixed           PatchStrategy = "SetFixed"
	StrategyMultiplyByGapFactor PatchStrategy = "MultiplyByGapFactor"
)

// ConfigPatch suggests a single config field change to address one
// violated metric.
type ConfigPatch struct {
	Path             string
	CurrentValue     *float64
	SuggestedValue   float64
	Confidence       float64
	ExpectedImpact   string
	Strategy         PatchStrategy
	AddressesMetric  string
}

// metricPatchRule declares how to patch the config field behind a given
// metric, including the patch strategy and the influence weight used in
// the confidence formula (§4.6.3: confidence = influence × (1 - severity × 0.3)).
type metricPatchRule struct {
	path      string
	strategy  PatchStrategy
	influence float64
}

var patchRules = map[string]metricPatchRule{
	"anomaly_rate":               {"anomaly.base_rate", StrategyIncreaseByGap, 0.9},
	"duplicate_rate":             {"data_quality.exact_duplicate_rate", StrategyDecreaseByGap, 0.8},
	"ic_match_rate":              {"intercompany.match_precision", StrategyIncreaseByGap, 0.85},
	"document_chain_completion":  {"document_flows.completion_rate", StrategyIncreaseByGap, 0.8},
	"completeness_rate":          {"data_quality.missing_value_rate", StrategyDecreaseByGap, 0.7},
	"graph_connectivity":         {"intercompany.match_precision", StrategyIncreaseByGap, 0.6},
	"temporal_correlation":       {"anomaly.temporal_pattern", StrategySetFixed, 0.5},
	"label_coverage":             {"anomaly.per_document_cap", StrategyIncreaseByGap, 0.4},
	"benford_p_value":            {"benford_compliance", StrategyEnableBoolean, 0.95},
}

// severityOf scores how far a violation missed its bound, scaled to
// [0, 1]: a metric that missed by its own bound's magnitude scores 1.0.
func severityOf(v Violation) float64 {
	if v.Bound == 0 {
		if v.Value == 0 {
			return 0
		}
		return 1
	}
	gap := v.Value - v.Bound
	if gap < 0 {
		gap = -gap
	}
	severity := gap / v.Bound
	if severity > 1 {
		severity = 1
	}
	return severity
}

// AutoTuneResult is the auto-tuner's suggested patch set.
type AutoTuneResult struct {
	Patches              []ConfigPatch
	ExpectedImprovement  float64
	AddressedMetrics     []string
	UnaddressableMetrics []string
}

// AutoTune converts every violation into a suggested ConfigPatch where a
// rule exists, per §4.6.3. Violations with no known rule are reported as
// unaddressable rather than silently dropped.
func AutoTune(violations []Violation) AutoTuneResult {
	var result AutoTuneResult
	totalConfidence := 0.0

	for _, v := range violations {
		rule, ok := patchRules[v.Metric]
		if !ok {
			result.UnaddressableMetrics = append(result.UnaddressableMetrics, v.Metric)
			continue
		}

		severity := severityOf(v)
		confidence := rule.influence * (1 - severity*0.3)

		gap := v.Bound - v.Value
		suggested := v.Bound
		if rule.strategy == StrategyIncreaseByGap {
			suggested = v.Value + gap*1.1 // overshoot the bound slightly so the fix holds under resampling noise
		}
		if rule.strategy == StrategyDecreaseByGap {
			suggested = v.Value - (v.Value-v.Bound)*1.1
			if suggested < 0 {
				suggested = 0
			}
		}

		current := v.Value
		patch := ConfigPatch{
			Path:            rule.path,
			CurrentValue:    &current,
			SuggestedValue:  suggested,
			Confidence:      confidence,
			ExpectedImpact:  v.Metric + " moves toward its configured bound",
			Strategy:        rule.strategy,
			AddressesMetric: v.Metric,
		}
		result.Patches = append(result.Patches, patch)
		result.AddressedMetrics = append(result.AddressedMetrics, v.Metric)
		totalConfidence += confidence
	}

	if len(result.Patches) > 0 {
		result.ExpectedImprovement = totalConfidence / float64(len(result.Patches))
	}
	return result
}
