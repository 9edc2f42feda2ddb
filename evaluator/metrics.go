// Package evaluator implements the coherence evaluator and auto-tuner
// (C6, §4.6): Benford's-law goodness-of-fit, coherence/quality/
// ML-readiness metric families, threshold comparison, and config-patch
// suggestions.
package evaluator

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// benfordExpected is the expected frequency of each leading digit 1-9
// under Benford's law: log10(1 + 1/d).
var benfordExpected = func() [9]float64 {
	var e [9]float64
	for d := 1; d <= 9; d++ {
		e[d-1] = math.Log10(1 + 1/float64(d))
	}
	return e
}()

// LeadingDigit returns the first significant digit of value's absolute
// value, or 0 if value is zero.
func LeadingDigit(value float64) int {
	value = math.Abs(value)
	if value == 0 {
		return 0
	}
	for value < 1 {
		value *= 10
	}
	for value >= 10 {
		value /= 10
	}
	return int(value)
}

// BenfordResult is the outcome of a goodness-of-fit test against
// Benford's law over a set of leading-digit observations.
type BenfordResult struct {
	ObservedCounts [9]int
	ObservedFreq   [9]float64
	ExpectedFreq   [9]float64
	ChiSquare      float64
	PValue         float64
	SampleSize     int
}

// EvaluateBenford computes the chi-square statistic and p-value for a
// slice of positive amounts against the expected Benford distribution,
// per §4.6.1. Degrees of freedom is 8 (9 digit buckets minus 1).
func EvaluateBenford(amounts []float64) BenfordResult {
	var counts [9]int
	n := 0
	for _, a := range amounts {
		d := LeadingDigit(a)
		if d >= 1 && d <= 9 {
			counts[d-1]++
			n++
		}
	}

	result := BenfordResult{ObservedCounts: counts, ExpectedFreq: benfordExpected, SampleSize: n}
	if n == 0 {
		return result
	}

	chiSquare := 0.0
	for i := 0; i < 9; i++ {
		observed := float64(counts[i])
		expected := benfordExpected[i] * float64(n)
		result.ObservedFreq[i] = observed / float64(n)
		if expected > 0 {
			chiSquare += (observed - expected) * (observed - expected) / expected
		}
	}
	result.ChiSquare = chiSquare
	result.PValue = 1 - chiSquareCDF(chiSquare, 8)
	return result
}

// chiSquareCDF evaluates the chi-square CDF at x with k degrees of
// freedom via gonum's distuv.ChiSquared distribution.
func chiSquareCDF(x float64, k int) float64 {
	if x <= 0 {
		return 0
	}
	dist := distuv.ChiSquared{K: float64(k)}
	return dist.CDF(x)
}
