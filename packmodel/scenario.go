package packmodel

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lorekeep/packev/rarity"
)

// ApplyScenario returns a copy of the base config with the named scenario
// applied. The base config is never mutated. An unknown scenario name is a
// configuration error.
//
// Retargeting the foil slot's chase-tier rate subtracts the delta from the
// other tiers in proportion to their share of the remaining mass, so the
// table keeps its total. Entries are clamped at zero and the survivors
// rescaled when the proportional subtraction would go negative; in that
// case the remaining mass is insufficient and the result is a best-effort
// approximation.
func ApplyScenario(base *Config, name string) (*Config, error) {
	cfg := base.Clone()
	if name == "" {
		return cfg, nil
	}
	sc, ok := base.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	if sc.RareSlotOdds != nil {
		cfg.RareSlotOdds = sc.RareSlotOdds.Clone()
	}
	if sc.FoilEnchantedPerPack != nil {
		cfg.FoilOdds = retargetChaseTier(cfg.FoilOdds, *sc.FoilEnchantedPerPack)
	}
	cfg.Validate()
	return cfg, nil
}

func retargetChaseTier(foil OddsTable, target float64) OddsTable {
	adjusted := foil.Clone()
	if target < 0 {
		target = 0
	}

	total := adjusted.Sum()
	current := adjusted[rarity.Enchanted]
	remaining := total - current
	delta := target - current

	if remaining <= 0 {
		// Nothing to redistribute against: the whole table was chase mass.
		log.Warn().Float64("target", target).
			Msg("foil odds have no non-chase mass to redistribute")
		adjusted[rarity.Enchanted] = target
		return adjusted
	}

	for r, v := range adjusted {
		if r == rarity.Enchanted {
			continue
		}
		adjusted[r] = v - delta*(v/remaining)
		if adjusted[r] < 0 {
			adjusted[r] = 0
		}
	}
	adjusted[rarity.Enchanted] = target

	// Rescale the non-chase entries so the table keeps its original total.
	// This only changes anything when clamping kicked in above.
	wantOthers := total - target
	if wantOthers < 0 {
		log.Warn().Float64("target", target).Float64("mass", total).
			Msg("chase-tier target exceeds total foil mass")
		wantOthers = 0
	}
	haveOthers := adjusted.Sum() - target
	if haveOthers > 0 && wantOthers >= 0 {
		scale := wantOthers / haveOthers
		for r := range adjusted {
			if r != rarity.Enchanted {
				adjusted[r] *= scale
			}
		}
	}
	return adjusted
}
