// Package stats computes descriptive statistics over timing samples.
package stats

import (
	"math"
	"slices"
)

// Summary describes a sample of float64 observations.
// The zero value describes the empty sample.
type Summary struct {
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	P95      float64 `json:"p95"`
}

// Describe summarizes samples. Variance is the population variance; the
// median of an even-sized sample is the mean of the two middle values; P95
// uses the nearest-rank method. The input slice is not modified.
func Describe(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sorted {
		d := v - mean
		sq += d * d
	}
	variance := sq / float64(n)

	return Summary{
		Count:    n,
		Sum:      sum,
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      sorted[0],
		Max:      sorted[n-1],
		Median:   median(sorted),
		P95:      NearestRank(sorted, 95),
	}
}

// NearestRank returns the p-th percentile of an ascending sample:
// sorted[ceil(p/100*n)-1], clamped to the valid index range.
func NearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = min(max(rank, 1), len(sorted))
	return sorted[rank-1]
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
