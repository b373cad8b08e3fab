package ev

import (
	"context"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/lorekeep/packev/packmodel"
	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/stats"
	"github.com/lorekeep/packev/summary"
)

func TestSimulateBoxesAgreesWithClosedForm(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	sums := testSummaries()
	bulk := BulkFloor{Common: 0.02, Uncommon: 0.05}

	want := Box(Pack(sums, cfg, bulk), cfg)

	sim := NewSimulator(sums, cfg, bulk)
	res, err := sim.SimulateBoxes(context.Background(), 5000)
	is.NoErr(err)
	is.Equal(res.Trials, 5000)
	is.Equal(sim.Trials(), 5000)

	// Statistical assertion: 5000 trials should land well within 5% of
	// the closed form.
	is.True(math.Abs(res.Mean-want)/want < 0.05)

	// The 99% confidence interval is derived from the standard error of
	// the run, and should cover the closed form with room to spare.
	is.True(res.CI99 > 0)
	is.True(stats.FuzzyEqual(res.CI99, stats.Z99*res.Stdev/math.Sqrt(float64(res.Trials))))
	is.True(math.Abs(res.Mean-want) < 2*res.CI99)

	// Percentiles are ordered and bracket the mean of a right-skewed
	// distribution sensibly.
	is.True(res.P5 <= res.P50)
	is.True(res.P50 <= res.P95)
	is.True(res.P5 < res.Mean)
	is.True(res.Mean < res.P95)
	is.True(res.Stdev > 0)
}

func TestSimulateBoxesSingleThread(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	sums := testSummaries()

	sim := NewSimulator(sums, cfg, BulkFloor{})
	sim.SetThreads(1)
	res, err := sim.SimulateBoxes(context.Background(), 200)
	is.NoErr(err)
	is.Equal(res.Trials, 200)
}

func TestSimulateBoxesNoData(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	// With no priced buckets and no bulk floor every box is worth zero.
	sim := NewSimulator(map[summary.Key]summary.Summary{}, cfg, BulkFloor{})
	res, err := sim.SimulateBoxes(context.Background(), 50)
	is.NoErr(err)
	is.Equal(res.Mean, 0.0)
	is.Equal(res.P95, 0.0)
}

func TestSimulateBoxesBadTrials(t *testing.T) {
	is := is.New(t)
	sim := NewSimulator(testSummaries(), testConfig(), BulkFloor{})
	_, err := sim.SimulateBoxes(context.Background(), 0)
	is.True(err != nil)
}

func TestSimulateBoxesCanceled(t *testing.T) {
	is := is.New(t)
	sim := NewSimulator(testSummaries(), testConfig(), BulkFloor{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.SimulateBoxes(ctx, 1000000)
	is.True(err != nil)
}

func TestCumulativeOddsDraw(t *testing.T) {
	is := is.New(t)
	co := newCumulativeOdds(testConfig().FoilOdds)

	// Bounds cover the canonical tier order.
	r, ok := co.draw(0.0)
	is.True(ok)
	is.Equal(r.String(), "common")

	r, ok = co.draw(0.999)
	is.True(ok)
	is.Equal(r.String(), "enchanted")

	// Residual mass past the table total is a miss.
	partial := newCumulativeOdds(packmodel.OddsTable{
		rarity.Rare:      0.15,
		rarity.SuperRare: 0.05,
	})
	r, ok = partial.draw(0.1)
	is.True(ok)
	is.Equal(r.String(), "rare")
	_, ok = partial.draw(0.5)
	is.True(!ok)
}
