// Package ev computes the expected monetary value of opening booster
// packs, boxes and cases, combining a pack odds model with per-rarity
// price summaries.
package ev

import (
	"math"

	"github.com/lorekeep/packev/packmodel"
	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/summary"
)

// BulkFloor is the floor value assigned to each guaranteed common and
// uncommon slot. Bulk cards rarely have meaningful individual prices, so
// they enter the EV as a flat per-card floor.
type BulkFloor struct {
	Common   float64
	Uncommon float64
}

// rareOrBetter are the tiers a rare-or-better slot can produce.
var rareOrBetter = []rarity.Rarity{rarity.Rare, rarity.SuperRare, rarity.Legendary}

// foilFinish returns the finish whose summary bucket prices a foil-slot
// pull of the given tier. The chase tier is only sold as the special line.
func foilFinish(r rarity.Rarity) rarity.Finish {
	if r == rarity.Enchanted {
		return rarity.Special
	}
	return rarity.Foil
}

// Pack computes the closed-form expected value of one pack. Buckets with
// no pricing data contribute zero; the function is total over any summary
// map, including an empty one.
func Pack(summaries map[summary.Key]summary.Summary, cfg *packmodel.Config, bulk BulkFloor) float64 {
	total := 0.0

	slotEV := 0.0
	for _, r := range rareOrBetter {
		slotEV += cfg.RareSlotOdds[r] * summary.MeanPrice(summaries, r, rarity.Base)
	}
	total += float64(cfg.Slots.RareOrHigher) * slotEV

	for r, odds := range cfg.FoilOdds {
		total += odds * summary.MeanPrice(summaries, r, foilFinish(r))
	}

	total += float64(cfg.Slots.Commons)*bulk.Common +
		float64(cfg.Slots.Uncommons)*bulk.Uncommon
	return total
}

// Box scales a pack EV to one sealed box.
func Box(packEV float64, cfg *packmodel.Config) float64 {
	return packEV * float64(cfg.PacksPerBox)
}

// Case scales a pack EV to one sealed case.
func Case(packEV float64, cfg *packmodel.Config) float64 {
	return packEV * float64(cfg.PacksPerBox) * float64(cfg.BoxesPerCase)
}

// AtLeastOneIn returns the probability of at least one hit over n packs,
// given a per-pack hit probability. The input probability is clamped to
// [0, 1].
func AtLeastOneIn(pPerPack float64, nPacks int) float64 {
	p := math.Min(1, math.Max(0, pPerPack))
	return 1 - math.Pow(1-p, float64(nPacks))
}

// Odds reports the chance of pulling at least one chase card at each
// product scale.
type Odds struct {
	PerPack float64
	PerBox  float64
	PerCase float64
}

// HitOdds derives the chase-tier hit odds from the foil slot's odds table.
func HitOdds(cfg *packmodel.Config) Odds {
	p := cfg.FoilOdds[rarity.Enchanted]
	return Odds{
		PerPack: AtLeastOneIn(p, 1),
		PerBox:  AtLeastOneIn(p, cfg.PacksPerBox),
		PerCase: AtLeastOneIn(p, cfg.PacksPerBox*cfg.BoxesPerCase),
	}
}
