package evaluator

import (
	"testing"

	"github.com/synthledger/engine/config"
)

func TestLeadingDigit(t *testing.T) {
	cases := map[float64]int{
		123.45: 1, 0.0456: 4, 999: 9, 5: 5, 0: 0,
	}
	for value, want := range cases {
		if got := LeadingDigit(value); got != want {
			t.Errorf("LeadingDigit(%v) = %d, want %d", value, got, want)
		}
	}
}

func TestEvaluateBenfordOnPerfectDistribution(t *testing.T) {
	var amounts []float64
	for d := 1; d <= 9; d++ {
		count := int(benfordExpected[d-1] * 10000)
		for i := 0; i < count; i++ {
			amounts = append(amounts, float64(d)*1.001)
		}
	}
	result := EvaluateBenford(amounts)
	if result.PValue < 0.5 {
		t.Errorf("expected a near-perfect Benford fit to have a high p-value, got %v", result.PValue)
	}
}

func TestEvaluateBenfordOnSkewedDistribution(t *testing.T) {
	amounts := make([]float64, 1000)
	for i := range amounts {
		amounts[i] = 9.001 // every amount leads with digit 9: a severe Benford violation
	}
	result := EvaluateBenford(amounts)
	if result.PValue > 0.01 {
		t.Errorf("expected a skewed distribution to fail Benford fit, got p=%v", result.PValue)
	}
}

func TestEvaluateFlagsOutOfBoundMetrics(t *testing.T) {
	thresholds := config.DefaultEvaluationThresholds()
	m := Metrics{
		AnomalyRate: 0.5, // way above AnomalyRateMax
		ICMatchRate: 0.10, // way below ICMatchRateMin
	}
	violations := Evaluate(m, thresholds)
	if len(violations) == 0 {
		t.Fatal("expected violations for out-of-bound metrics")
	}
	found := map[string]bool{}
	for _, v := range violations {
		found[v.Metric] = true
	}
	if !found["anomaly_rate"] || !found["ic_match_rate"] {
		t.Errorf("expected anomaly_rate and ic_match_rate violations, got %+v", violations)
	}
}

func TestAutoTuneProducesConfidentPatchesForKnownMetrics(t *testing.T) {
	violations := []Violation{
		{Metric: "anomaly_rate", Value: 0.005, Bound: 0.01, TooLow: true},
	}
	result := AutoTune(violations)
	if len(result.Patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(result.Patches))
	}
	p := result.Patches[0]
	if p.Confidence <= 0 || p.Confidence > 1 {
		t.Errorf("expected confidence in (0,1], got %v", p.Confidence)
	}
	if p.CurrentValue == nil || p.SuggestedValue <= *p.CurrentValue {
		t.Errorf("expected suggested value to increase above current")
	}
}

func TestAutoTuneReportsUnaddressableMetrics(t *testing.T) {
	violations := []Violation{{Metric: "nonexistent_metric", Value: 1, Bound: 0.5}}
	result := AutoTune(violations)
	if len(result.Patches) != 0 {
		t.Errorf("expected no patches for an unknown metric")
	}
	if len(result.UnaddressableMetrics) != 1 || result.UnaddressableMetrics[0] != "nonexistent_metric" {
		t.Errorf("expected nonexistent_metric reported as unaddressable, got %+v", result.UnaddressableMetrics)
	}
}

func TestSeverityOfClampsToOne(t *testing.T) {
	v := Violation{Metric: "x", Value: 10, Bound: 1}
	if s := severityOf(v); s != 1 {
		t.Errorf("expected severity clamped to 1, got %v", s)
	}
}
