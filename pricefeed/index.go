// Package pricefeed normalizes raw pricing-source payloads into canonical
// per-printing price indexes, and reconciles several indexes into one
// authoritative price per printing.
//
// All shape detection for upstream payloads lives here; downstream code
// only ever sees an Index.
package pricefeed

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lorekeep/packev/catalog"
	"github.com/lorekeep/packev/rarity"
)

// Observation is one source's belief about a printing's price. Nil fields
// mean the source has no data for that figure.
type Observation struct {
	Market    *float64
	Low       *float64
	Median    *float64
	UpdatedAt time.Time
}

// Index maps printing ids to price observations for a single source.
type Index map[string]Observation

// Field selects which price figure an operation reads.
type Field int

const (
	Market Field = iota
	Low
	Median
)

func (f Field) String() string {
	switch f {
	case Market:
		return "market"
	case Low:
		return "low"
	case Median:
		return "median"
	}
	return "market"
}

// ParseField maps a config token to a Field, defaulting to Market.
func ParseField(raw string) Field {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return Low
	case "median":
		return Median
	}
	return Market
}

// value returns the observation's figure for the field, or nil.
func (o Observation) value(f Field) *float64 {
	switch f {
	case Low:
		return o.Low
	case Median:
		return o.Median
	}
	return o.Market
}

// priceNode is the per-printing price shape shared by both payload kinds.
// Numeric fields arrive as numbers or strings depending on the source.
type priceNode struct {
	Market json.RawMessage `json:"market"`
	Low    json.RawMessage `json:"low"`
	Median json.RawMessage `json:"median"`
	TS     string          `json:"ts"`
}

func (n priceNode) observation() Observation {
	obs := Observation{
		Market: coercePrice(n.Market),
		Low:    coercePrice(n.Low),
		Median: coercePrice(n.Median),
	}
	if n.TS != "" {
		if ts, err := time.Parse(time.RFC3339, n.TS); err == nil {
			obs.UpdatedAt = ts
		}
	}
	return obs
}

func (o Observation) empty() bool {
	return o.Market == nil && o.Low == nil && o.Median == nil
}

// coercePrice parses a JSON number or numeric string into a price.
// Unparseable or non-positive values are treated as absent, not zero.
func coercePrice(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

type flatRow struct {
	priceNode
	PrintingID string `json:"printing_id"`
	ID         string `json:"id"`
	SetCode    string `json:"set_code"`
	Number     string `json:"number"`
	Finish     string `json:"finish"`
}

// rowPrintingID resolves a flat row to a printing id, deriving one from
// set code, collector number and finish when no explicit id is present.
func (r flatRow) rowPrintingID() string {
	if r.PrintingID != "" {
		return r.PrintingID
	}
	if r.ID != "" {
		return r.ID
	}
	if r.SetCode == "" || r.Number == "" {
		return ""
	}
	cardID := strings.ToLower(r.SetCode) + "-" + r.Number
	return catalog.PrintingID(cardID, rarity.ParseFinish(r.Finish))
}

// IndexRows adapts the flat-array payload shape: a JSON array of rows each
// carrying a printing id (or the fields to derive one) and price figures.
// Malformed rows are skipped, never fatal.
func IndexRows(source string, raw []byte) (Index, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	idx := make(Index, len(rows))
	skipped := 0
	for _, rowRaw := range rows {
		var row flatRow
		if err := json.Unmarshal(rowRaw, &row); err != nil {
			skipped++
			continue
		}
		pid := row.rowPrintingID()
		if pid == "" {
			skipped++
			continue
		}
		obs := row.observation()
		if obs.empty() {
			skipped++
			continue
		}
		idx[pid] = obs
	}
	if skipped > 0 {
		log.Warn().Str("source", source).Int("skipped", skipped).
			Int("indexed", len(idx)).Msg("skipped unusable price rows")
	}
	return idx, nil
}

// IndexNested adapts the nested payload shape: a JSON object keyed by card
// id whose values hold one price node per finish.
func IndexNested(source string, raw []byte) (Index, error) {
	var byCard map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byCard); err != nil {
		return nil, err
	}
	idx := make(Index, len(byCard)*2)
	skipped := 0
	for cardID, finishes := range byCard {
		for finishTok, nodeRaw := range finishes {
			var node priceNode
			if err := json.Unmarshal(nodeRaw, &node); err != nil {
				skipped++
				continue
			}
			obs := node.observation()
			if obs.empty() {
				skipped++
				continue
			}
			idx[catalog.PrintingID(cardID, rarity.ParseFinish(finishTok))] = obs
		}
	}
	if skipped > 0 {
		log.Warn().Str("source", source).Int("skipped", skipped).
			Int("indexed", len(idx)).Msg("skipped unusable price nodes")
	}
	return idx, nil
}

// DetectAndIndex sniffs the payload shape (array of rows vs object keyed
// by card id) and dispatches to the matching adapter.
func DetectAndIndex(source string, raw []byte) (Index, error) {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return IndexRows(source, raw)
		default:
			return IndexNested(source, raw)
		}
	}
	return Index{}, nil
}
