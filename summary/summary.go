// Package summary aggregates reconciled printing prices into per
// (rarity, finish) statistical summaries.
package summary

import (
	"github.com/samber/lo"

	"github.com/lorekeep/packev/catalog"
	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/stats"
)

// TrimFraction is the share of the sorted sample dropped from each end
// when computing the trimmed mean.
const TrimFraction = 0.10

// Key identifies a summary bucket.
type Key struct {
	Rarity rarity.Rarity
	Finish rarity.Finish
}

func (k Key) String() string {
	return k.Rarity.String() + "|" + k.Finish.String()
}

// Summary aggregates the usable prices of all printings in one bucket.
// Mean is a symmetrically trimmed mean; Median, Min and Max are computed
// on the untrimmed sample.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// PriceLookup resolves a printing id to its reconciled price. The second
// return is false when no source has usable data for that printing.
type PriceLookup func(printingID string) (float64, bool)

// Build groups the printings by (rarity, finish) and summarizes their
// reconciled prices. Printings without a usable price are excluded from
// the statistics entirely; they do not count as zero. When setCode is
// non-empty only printings of that set are considered.
//
// An empty result map means no pricing data is available for the scope,
// which callers must surface distinctly from a computed EV of zero.
func Build(printings []catalog.Printing, lookup PriceLookup, setCode string) map[Key]Summary {
	scoped := printings
	if setCode != "" {
		scoped = lo.Filter(printings, func(p catalog.Printing, _ int) bool {
			return p.SetCode == setCode
		})
	}

	samples := map[Key][]float64{}
	for _, p := range scoped {
		price, ok := lookup(p.ID)
		if !ok {
			continue
		}
		k := Key{Rarity: p.Rarity, Finish: p.Finish}
		samples[k] = append(samples[k], price)
	}

	out := make(map[Key]Summary, len(samples))
	for k, vals := range samples {
		out[k] = Summary{
			Count:  len(vals),
			Mean:   stats.TrimmedMean(vals, TrimFraction),
			Median: stats.Median(vals),
			Min:    lo.Min(vals),
			Max:    lo.Max(vals),
		}
	}
	return out
}

// MeanPrice returns the mean for a bucket, or 0 when the bucket has no
// priced printings. Missing buckets are a normal no-data case.
func MeanPrice(summaries map[Key]Summary, r rarity.Rarity, f rarity.Finish) float64 {
	return summaries[Key{Rarity: r, Finish: f}].Mean
}
