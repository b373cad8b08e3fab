// Package rarity defines the canonical rarity tiers and finishes for a
// collectible card game, and normalizes the many spellings that pricing
// sources use for them.
package rarity

import "strings"

// Rarity is a canonical rarity tier.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	SuperRare
	Legendary
	// Enchanted is the chase tier. It only exists as a special finish.
	Enchanted
)

// Tiers lists every canonical rarity in ascending order.
var Tiers = []Rarity{Common, Uncommon, Rare, SuperRare, Legendary, Enchanted}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case SuperRare:
		return "super_rare"
	case Legendary:
		return "legendary"
	case Enchanted:
		return "enchanted"
	}
	return "common"
}

// Finish is the physical treatment a printing is sold in.
type Finish int

const (
	Base Finish = iota
	Foil
	// Special is reserved for rarity-exclusive product lines, i.e. the
	// chase tier.
	Special
)

func (f Finish) String() string {
	switch f {
	case Base:
		return "base"
	case Foil:
		return "foil"
	case Special:
		return "special"
	}
	return "base"
}

// ParseFinish maps a raw finish token to a Finish. Unknown tokens map to
// Base.
func ParseFinish(raw string) Finish {
	switch collapse(raw) {
	case "foil", "holo", "holofoil":
		return Foil
	case "special", "enchanted":
		return Special
	}
	return Base
}

// chaseAliases are labels sources use for the chase tier besides
// "enchanted" itself.
var chaseAliases = map[string]bool{
	"enchanted":   true,
	"iconic":      true,
	"epic":        true,
	"secret rare": true,
	"special":     true,
	"d23":         true,
}

// AddChaseAlias registers an additional label to treat as the chase tier.
// Intended for load-time configuration, not concurrent use.
func AddChaseAlias(alias string) {
	chaseAliases[collapse(alias)] = true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Parse maps a raw rarity label to its canonical tier. Matching is
// case-insensitive and whitespace-collapsing. The second return is false
// when the label is not recognized.
func Parse(raw string) (Rarity, bool) {
	c := collapse(raw)
	if chaseAliases[c] {
		return Enchanted, true
	}
	switch c {
	case "common", "c":
		return Common, true
	case "uncommon", "u":
		return Uncommon, true
	case "rare", "r":
		return Rare, true
	case "super rare", "super_rare", "superrare", "sr":
		return SuperRare, true
	case "legendary", "l":
		return Legendary, true
	}
	return Common, false
}

// Normalize is Parse with the unrecognized case folded to Common. That is
// lossy but keeps catalog loading total.
func Normalize(raw string) Rarity {
	r, _ := Parse(raw)
	return r
}
