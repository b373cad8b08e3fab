package ev

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/lorekeep/packev/packmodel"
	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/stats"
	"github.com/lorekeep/packev/summary"
)

// SimResult summarizes the simulated distribution of box values. CI99 is
// the half-width of the 99% confidence interval on Mean.
type SimResult struct {
	Mean   float64
	Stdev  float64
	CI99   float64
	P5     float64
	P50    float64
	P95    float64
	Trials int
}

// cumulativeOdds is an odds table flattened for categorical sampling:
// tiers in canonical order with their cumulative probability bounds. Any
// residual mass past the last bound is a miss worth nothing.
type cumulativeOdds struct {
	tiers  []rarity.Rarity
	bounds []float64
}

func newCumulativeOdds(table packmodel.OddsTable) cumulativeOdds {
	co := cumulativeOdds{}
	running := 0.0
	for _, r := range rarity.Tiers {
		odds, ok := table[r]
		if !ok || odds <= 0 {
			continue
		}
		running += odds
		co.tiers = append(co.tiers, r)
		co.bounds = append(co.bounds, running)
	}
	return co
}

// draw samples one tier, or ok=false when the roll lands in residual mass.
func (co cumulativeOdds) draw(roll float64) (rarity.Rarity, bool) {
	for i, bound := range co.bounds {
		if roll < bound {
			return co.tiers[i], true
		}
	}
	return rarity.Common, false
}

// Simulator draws whole boxes pack by pack, pricing each pull at its
// bucket's mean. It exists to cross-check the closed-form Pack formula
// empirically; the two agree within sampling noise.
type Simulator struct {
	cfg       *packmodel.Config
	summaries map[summary.Key]summary.Summary
	bulk      BulkFloor

	rareSlot cumulativeOdds
	foilSlot cumulativeOdds
	threads  int

	trialCount atomic.Uint64

	mu          sync.Mutex
	lastSamples []float64
}

// NewSimulator prepares a simulator for the given model and summaries.
func NewSimulator(summaries map[summary.Key]summary.Summary, cfg *packmodel.Config, bulk BulkFloor) *Simulator {
	return &Simulator{
		cfg:       cfg,
		summaries: summaries,
		bulk:      bulk,
		rareSlot:  newCumulativeOdds(cfg.RareSlotOdds),
		foilSlot:  newCumulativeOdds(cfg.FoilOdds),
		threads:   max(1, runtime.NumCPU()),
	}
}

// SetThreads overrides the worker count. Useful for deterministic-ish
// test timing; results are statistically identical either way.
func (s *Simulator) SetThreads(threads int) {
	s.threads = max(1, threads)
}

// Trials returns the number of boxes simulated so far.
func (s *Simulator) Trials() int {
	return int(s.trialCount.Load())
}

// Samples returns the sorted box values from the most recent run, for
// callers that want to plot the distribution.
func (s *Simulator) Samples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSamples
}

func (s *Simulator) simPack(rng *frand.RNG) float64 {
	value := float64(s.cfg.Slots.Commons)*s.bulk.Common +
		float64(s.cfg.Slots.Uncommons)*s.bulk.Uncommon

	for i := 0; i < s.cfg.Slots.RareOrHigher; i++ {
		if r, ok := s.rareSlot.draw(rng.Float64()); ok {
			value += summary.MeanPrice(s.summaries, r, rarity.Base)
		}
	}
	if r, ok := s.foilSlot.draw(rng.Float64()); ok {
		value += summary.MeanPrice(s.summaries, r, foilFinish(r))
	}
	return value
}

func (s *Simulator) simBox(rng *frand.RNG) float64 {
	value := 0.0
	for p := 0; p < s.cfg.PacksPerBox; p++ {
		value += s.simPack(rng)
	}
	return value
}

// SimulateBoxes simulates nTrials sealed boxes and reports the mean and
// the 5th/50th/95th percentiles of box value. It blocks until done or the
// context is canceled; a canceled run returns the context error.
func (s *Simulator) SimulateBoxes(ctx context.Context, nTrials int) (SimResult, error) {
	logger := zerolog.Ctx(ctx)

	if nTrials <= 0 {
		return SimResult{}, errors.New("trial count must be positive")
	}
	s.trialCount.Store(0)

	var mu sync.Mutex
	values := make([]float64, 0, nTrials)

	g, ctx := errgroup.WithContext(ctx)
	per := nTrials / s.threads
	extra := nTrials % s.threads
	for t := 0; t < s.threads; t++ {
		n := per
		if t < extra {
			n++
		}
		if n == 0 {
			continue
		}
		g.Go(func() error {
			rng := frand.New()
			local := make([]float64, 0, n)
			for i := 0; i < n; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				local = append(local, s.simBox(rng))
				s.trialCount.Add(1)
			}
			mu.Lock()
			values = append(values, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SimResult{}, err
	}

	running := &stats.Statistic{}
	for _, v := range values {
		running.Push(v)
	}
	sort.Float64s(values)
	s.mu.Lock()
	s.lastSamples = values
	s.mu.Unlock()

	res := SimResult{
		Mean:   running.Mean(),
		Stdev:  running.Stdev(),
		CI99:   stats.Z99 * running.StandardError(),
		P5:     stats.Percentile(values, 5),
		P50:    stats.Percentile(values, 50),
		P95:    stats.Percentile(values, 95),
		Trials: running.Iterations(),
	}
	logger.Debug().Int("trials", res.Trials).Float64("mean", res.Mean).
		Float64("ci99", res.CI99).Msg("box simulation finished")
	return res, nil
}
