package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		vals  []int
		mean  float64
		stdev float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, v := range c.vals {
			s.Push(float64(v))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.vals))
	}
}

func TestStandardError(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	is.True(FuzzyEqual(s.StandardError(), s.Stdev()/2.8284271247462))
}

func TestTrimmedMean(t *testing.T) {
	is := is.New(t)

	// 10 samples, 10% trim drops exactly one from each end.
	vals := []float64{100, 2, 3, 4, 5, 6, 7, 8, 9, 0.5}
	got := TrimmedMean(vals, 0.1)
	is.True(FuzzyEqual(got, (2+3+4+5+6+7+8+9)/8.0))

	// Under five samples the plain mean is used.
	small := []float64{1, 2, 100}
	is.True(FuzzyEqual(TrimmedMean(small, 0.1), 103.0/3))

	is.True(FuzzyEqual(TrimmedMean(nil, 0.1), 0))
}

func TestTrimmedMeanExcludesExtremes(t *testing.T) {
	is := is.New(t)
	vals := []float64{1000, 1, 2, 3, 4, 5, 6, 7, 8, 0.001}
	got := TrimmedMean(vals, 0.1)
	// Neither extreme survives the trim.
	is.True(got < 1000)
	is.True(got > 0.001)
	is.True(FuzzyEqual(got, 4.5))
}

func TestMedian(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(Median([]float64{3, 1, 2}), 2))
	is.True(FuzzyEqual(Median([]float64{4, 1, 3, 2}), 2.5))
	is.True(FuzzyEqual(Median([]float64{7}), 7))
	is.True(FuzzyEqual(Median(nil), 0))
}

func TestPercentile(t *testing.T) {
	is := is.New(t)
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	is.True(FuzzyEqual(Percentile(sorted, 0), 1))
	is.True(FuzzyEqual(Percentile(sorted, 100), 10))
	is.True(FuzzyEqual(Percentile(sorted, 50), 5.5))
	is.True(FuzzyEqual(Percentile([]float64{42}, 95), 42))
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	// Familiar z-values.
	is.True(ZVal(95) > 1.9599)
	is.True(ZVal(95) < 1.9601)
	is.True(ZVal(99) > 2.57)
	is.True(ZVal(99) < 2.58)
}
