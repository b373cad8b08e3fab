package stats

import (
	"math"
	"sort"
)

// minTrimSamples is the smallest sample size for which trimming is applied.
// Below it, a 10% symmetric trim would either be a no-op or throw away too
// large a share of the sample.
const minTrimSamples = 5

// TrimmedMean returns the mean of vals after dropping the lowest and highest
// trimFrac share of the sorted sample (rounded down by count). Samples
// smaller than five elements are averaged without trimming. Returns 0 for an
// empty sample.
func TrimmedMean(vals []float64, trimFrac float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	lo, hi := 0, n
	if n >= minTrimSamples && trimFrac > 0 {
		k := int(float64(n) * trimFrac)
		if 2*k < n {
			lo, hi = k, n-k
		}
	}
	sum := 0.0
	for _, v := range sorted[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo)
}

// Median returns the sorted-middle value of vals, or the average of the two
// middle values for even-sized samples. Returns 0 for an empty sample.
func Median(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the pth percentile (0-100) of vals using linear
// interpolation between closest ranks. The input slice must be sorted
// ascending.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := (p / 100) * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
