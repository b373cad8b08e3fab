// Package packmodel holds the probability model for a booster pack: slot
// counts, the rare-or-better odds table, the foil slot odds table, and
// named scenarios that adjust them.
package packmodel

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/lorekeep/packev/rarity"
	"github.com/lorekeep/packev/stats"
)

// OddsTable is a probability mass over rarity tiers. It should sum to at
// most 1; any unassigned mass means "no card of interest in this slot".
type OddsTable map[rarity.Rarity]float64

// Sum returns the total probability mass of the table.
func (o OddsTable) Sum() float64 {
	total := 0.0
	for _, v := range o {
		total += v
	}
	return total
}

// Clone returns a copy of the table.
func (o OddsTable) Clone() OddsTable {
	c := make(OddsTable, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Slots holds the fixed slot counts of one pack.
type Slots struct {
	Commons      int `yaml:"commons"`
	Uncommons    int `yaml:"uncommons"`
	RareOrHigher int `yaml:"rare_or_higher_slots"`
}

// Scenario overrides parts of the base model. A nil field leaves the base
// value untouched.
type Scenario struct {
	// RareSlotOdds, when present, replaces the base table wholesale.
	RareSlotOdds OddsTable
	// FoilEnchantedPerPack retargets the chase-tier odds of the foil slot;
	// the difference is redistributed proportionally over the other tiers.
	FoilEnchantedPerPack *float64
}

// Config is the full pack model. Loaded once; treat as immutable and use
// ApplyScenario to derive adjusted copies.
type Config struct {
	RareSlotOdds OddsTable
	FoilOdds     OddsTable
	Slots        Slots
	PacksPerBox  int
	BoxesPerCase int
	Scenarios    map[string]Scenario
}

// Clone deep-copies the config. Scenarios are shared; they are never
// mutated after load.
func (c *Config) Clone() *Config {
	clone := *c
	clone.RareSlotOdds = c.RareSlotOdds.Clone()
	clone.FoilOdds = c.FoilOdds.Clone()
	return &clone
}

// Validate defensively repairs odds tables that do not form a probability
// mass: negative entries are clamped to zero and tables summing over 1 are
// scaled back down. Problems are logged, never fatal.
func (c *Config) Validate() {
	c.RareSlotOdds = repairTable("rare_slot_odds", c.RareSlotOdds)
	c.FoilOdds = repairTable("foil_odds", c.FoilOdds)
}

func repairTable(name string, table OddsTable) OddsTable {
	repaired := table.Clone()
	for r, v := range repaired {
		if v < 0 {
			log.Warn().Str("table", name).Str("rarity", r.String()).
				Float64("odds", v).Msg("clamping negative odds to zero")
			repaired[r] = 0
		}
	}
	if sum := repaired.Sum(); sum > 1+stats.Epsilon {
		log.Warn().Str("table", name).Float64("sum", sum).
			Msg("odds table sums over 1; renormalizing")
		for r := range repaired {
			repaired[r] /= sum
		}
	}
	return repaired
}

// yamlConfig is the on-disk shape. Odds tables are keyed by rarity label.
type yamlConfig struct {
	RareSlotOdds map[string]float64      `yaml:"rare_slot_odds"`
	FoilOdds     map[string]float64      `yaml:"foil_odds"`
	Slots        Slots                   `yaml:"slots"`
	PacksPerBox  int                     `yaml:"packs_per_box"`
	BoxesPerCase int                     `yaml:"boxes_per_case"`
	Scenarios    map[string]yamlScenario `yaml:"scenarios"`
}

type yamlScenario struct {
	RareSlotOdds         map[string]float64 `yaml:"rare_slot_odds"`
	FoilEnchantedPerPack *float64           `yaml:"foil_enchanted_per_pack"`
}

func parseOddsTable(name string, raw map[string]float64) OddsTable {
	if raw == nil {
		return nil
	}
	table := make(OddsTable, len(raw))
	for label, v := range raw {
		r, ok := rarity.Parse(label)
		if !ok {
			log.Warn().Str("table", name).Str("rarity", label).
				Msg("dropping odds entry with unknown rarity")
			continue
		}
		table[r] += v
	}
	return table
}

// Load parses a pack model from YAML and validates its odds tables.
func Load(raw []byte) (*Config, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return nil, fmt.Errorf("parsing pack model: %w", err)
	}
	cfg := &Config{
		RareSlotOdds: parseOddsTable("rare_slot_odds", yc.RareSlotOdds),
		FoilOdds:     parseOddsTable("foil_odds", yc.FoilOdds),
		Slots:        yc.Slots,
		PacksPerBox:  yc.PacksPerBox,
		BoxesPerCase: yc.BoxesPerCase,
		Scenarios:    make(map[string]Scenario, len(yc.Scenarios)),
	}
	for name, ys := range yc.Scenarios {
		cfg.Scenarios[name] = Scenario{
			RareSlotOdds:         parseOddsTable("scenario:"+name, ys.RareSlotOdds),
			FoilEnchantedPerPack: ys.FoilEnchantedPerPack,
		}
	}
	cfg.Validate()
	return cfg, nil
}
