// Package catalog holds the card catalog model and expands logical cards
// into sellable printings.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lorekeep/packev/rarity"
)

// Card is one logical card entity as loaded from the catalog. It is
// immutable after loading.
type Card struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Rarity    string   `json:"rarity"`
	Cost      int      `json:"cost,omitempty"`
	Strength  int      `json:"strength,omitempty"`
	Willpower int      `json:"willpower,omitempty"`
	Lore      int      `json:"lore,omitempty"`
	Ink       string   `json:"ink,omitempty"`
	Franchise []string `json:"franchise,omitempty"`
	SetCode   string   `json:"set_code"`
	Number    string   `json:"number,omitempty"`
	// Finishes optionally declares which finishes this card exists in.
	// When empty the card is assumed to exist in base and foil.
	Finishes []string `json:"finishes,omitempty"`
}

// Printing is one concrete sellable unit: a card in a specific finish.
// Read-only after expansion.
type Printing struct {
	ID            string
	CardID        string
	SetCode       string
	Rarity        rarity.Rarity
	Finish        rarity.Finish
	SpecialRarity bool
}

// LoadCards parses a catalog JSON blob (an array of card records). Rows
// without an id are skipped with a warning rather than failing the load.
func LoadCards(raw []byte) ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("parsing card catalog: %w", err)
	}
	loaded := lo.Filter(cards, func(c Card, _ int) bool {
		if c.ID == "" {
			log.Warn().Str("name", c.Name).Msg("skipping catalog row with no id")
			return false
		}
		return true
	})
	log.Debug().Int("cards", len(loaded)).Msg("loaded catalog")
	return loaded, nil
}

// SetCodes returns the distinct set codes present in the catalog.
func SetCodes(cards []Card) []string {
	return lo.Uniq(lo.Map(cards, func(c Card, _ int) string { return c.SetCode }))
}

// PrintingID builds the deterministic printing identifier for a card and
// finish token.
func PrintingID(cardID string, finish rarity.Finish) string {
	return cardID + "-" + finish.String()
}

// ExpandPrintings expands each card into one printing per finish. Cards
// with no declared finish list become a base and a foil printing.
//
// Chase-tier (enchanted) cards are sold as a single special product line:
// the stored Finish is forced to special and SpecialRarity is set. The
// identifier keeps the pre-override finish token so that ids stay stable
// if a card's rarity is reclassified upstream.
func ExpandPrintings(cards []Card) []Printing {
	printings := make([]Printing, 0, len(cards)*2)
	for _, c := range cards {
		tier := rarity.Normalize(c.Rarity)

		finishes := []rarity.Finish{rarity.Base, rarity.Foil}
		if len(c.Finishes) > 0 {
			finishes = lo.Uniq(lo.Map(c.Finishes, func(f string, _ int) rarity.Finish {
				return rarity.ParseFinish(f)
			}))
		}

		for _, f := range finishes {
			p := Printing{
				ID:      PrintingID(c.ID, f),
				CardID:  c.ID,
				SetCode: c.SetCode,
				Rarity:  tier,
				Finish:  f,
			}
			if tier == rarity.Enchanted {
				p.Finish = rarity.Special
				p.SpecialRarity = true
			}
			printings = append(printings, p)
		}
	}
	return printings
}
